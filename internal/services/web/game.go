package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/game/round"
	apperrors "github.com/louisbranch/mindvsmachine/internal/services/web/platform/errors"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/flash"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/httpx"
)

func (a *app) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, flash.Error("Could not read the settings form."))
		return
	}
	settings, err := parseSettings(r.PostForm)
	if err != nil {
		redirectWith(w, r, flash.Error(apperrors.Message(err)))
		return
	}
	rangeMessage := ""
	if err := rng.ValidateRange(settings.Min, settings.Max); err != nil {
		rangeMessage = err.Error()
	}
	a.visitors.Update(visitorIDFromRequest(r), func(state *visitorState) {
		if state.Settings.Algorithm != settings.Algorithm {
			state.LastSeed = nil
		}
		state.Settings = settings
		state.SettingsError = rangeMessage
	})
	httpx.WriteRedirect(w, r, "/")
}

// parseSettings reads the sidebar form. Range validity is checked separately
// so an invalid range still sticks and can be shown back to the visitor.
func parseSettings(form url.Values) (Settings, error) {
	algorithm, err := rng.ParseAlgorithm(form.Get("algorithm"))
	if err != nil {
		return Settings{}, apperrors.Wrap(apperrors.KindInvalidInput, "Unknown random algorithm.", err)
	}
	mode, err := round.ParseMode(form.Get("mode"))
	if err != nil {
		return Settings{}, apperrors.Wrap(apperrors.KindInvalidInput, "Unknown game mode.", err)
	}
	minVal, err := parseBound(form.Get("min"), "Minimum")
	if err != nil {
		return Settings{}, err
	}
	maxVal, err := parseBound(form.Get("max"), "Maximum")
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Algorithm: algorithm,
		Mode:      mode,
		Min:       minVal,
		Max:       maxVal,
		DarkMode:  form.Get("dark_mode") == "on",
	}, nil
}

func parseBound(raw, label string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInvalidInput, label+" must be a whole number.", err)
	}
	if n < rng.MinInput || n > rng.MaxInput {
		return 0, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("%s must be between %d and %d.", label, rng.MinInput, rng.MaxInput))
	}
	return n, nil
}

func (a *app) handleGenerate(w http.ResponseWriter, r *http.Request) {
	visitorID := visitorIDFromRequest(r)
	state := a.visitors.Get(visitorID)
	if state.SettingsError != "" {
		redirectWith(w, r, flash.Error(state.SettingsError))
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, flash.Error("Could not read the prediction form."))
		return
	}
	prediction, choice, err := readPrediction(r.PostForm, state)
	if err != nil {
		redirectWith(w, r, flash.Error(apperrors.Message(err)))
		return
	}

	settings := state.Settings
	engine := a.engines[settings.Algorithm]
	if engine == nil {
		a.writeError(w, r, fmt.Errorf("no engine for algorithm %q", settings.Algorithm))
		return
	}
	ctx, span := a.tracer.Start(r.Context(), "generate")
	span.SetAttributes(
		attribute.String("algorithm", string(settings.Algorithm)),
		attribute.String("mode", string(settings.Mode)),
		attribute.Int("min", settings.Min),
		attribute.Int("max", settings.Max),
	)
	defer span.End()

	draw, err := engine.Draw(settings.Min, settings.Max)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, rng.ErrInvalidRange) {
			redirectWith(w, r, flash.Error("Error generating number: "+err.Error()))
			return
		}
		a.writeError(w, r, err)
		return
	}
	rnd, err := round.New(prediction, draw.Value, settings.Mode, settings.Min, settings.Max, settings.Algorithm, a.now())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.store.AppendRound(ctx, rnd); err != nil {
		span.RecordError(err)
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not save the round.", err))
		return
	}
	hit := rnd.IsHit()
	a.metrics.ObserveRound(string(rnd.Algorithm), string(rnd.Mode), hit)
	span.SetAttributes(attribute.Int("generated", rnd.Generated), attribute.Bool("hit", hit))
	a.logger.Debug().
		Str("round_id", rnd.ID).
		Str("algorithm", string(rnd.Algorithm)).
		Str("mode", string(rnd.Mode)).
		Int("generated", rnd.Generated).
		Bool("hit", hit).
		Msg("round generated")

	a.visitors.Update(visitorID, func(state *visitorState) {
		state.LastRound = &rnd
		state.LastPrediction = prediction
		state.LastChoice = choice
		state.ShowPrediction = false
		state.LastSeed = nil
		if draw.Seeded {
			seed := draw.Seed
			state.LastSeed = &seed
		}
	})
	httpx.WriteRedirect(w, r, "/")
}

// readPrediction returns the prediction for the next round. While the input is
// hidden after a generate, the previous prediction carries over.
func readPrediction(form url.Values, state visitorState) (*int, string, error) {
	if !state.ShowPrediction {
		return state.LastPrediction, state.LastChoice, nil
	}
	settings := state.Settings
	if settings.Mode == round.ModeHighLow {
		choice := strings.ToLower(strings.TrimSpace(form.Get("choice")))
		if choice == "" {
			return nil, "", nil
		}
		value, err := round.PredictionFromChoice(choice, settings.Min, settings.Max)
		if err != nil {
			return nil, "", apperrors.Wrap(apperrors.KindInvalidInput, "Pick High or Low.", err)
		}
		return &value, choice, nil
	}

	raw := strings.TrimSpace(form.Get("prediction"))
	if raw == "" {
		return nil, "", nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInvalidInput, "Prediction must be a whole number.", err)
	}
	if value < settings.Min || value > settings.Max {
		return nil, "", apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("Prediction must be between %d and %d.", settings.Min, settings.Max))
	}
	return &value, "", nil
}

func (a *app) handleNewRound(w http.ResponseWriter, r *http.Request) {
	a.visitors.Update(visitorIDFromRequest(r), func(state *visitorState) {
		state.LastRound = nil
		state.LastPrediction = nil
		state.LastChoice = ""
		state.ShowPrediction = true
	})
	httpx.WriteRedirect(w, r, "/")
}
