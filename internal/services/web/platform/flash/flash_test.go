package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWriteThenReadAndClearRoundTrip(t *testing.T) {
	t.Parallel()

	writeRec := httptest.NewRecorder()
	Write(writeRec, Success("Exported to data/exports/sessions.csv"))
	cookies := writeRec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	readRec := httptest.NewRecorder()
	notice, ok := ReadAndClear(readRec, req)
	if !ok {
		t.Fatal("expected notice")
	}
	if notice.Kind != KindSuccess || notice.Message != "Exported to data/exports/sessions.csv" {
		t.Fatalf("notice = %+v", notice)
	}
	cleared := readRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cleared)
	}
}

func TestWriteIgnoresInvalidNotices(t *testing.T) {
	t.Parallel()

	for _, notice := range []Notice{
		{Kind: KindSuccess, Message: "  "},
		{Kind: "shout", Message: "hello"},
	} {
		rec := httptest.NewRecorder()
		Write(rec, notice)
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("notice %+v should not be written", notice)
		}
	}
}

func TestReadAndClearRejectsGarbage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%not-base64"})
	if _, ok := ReadAndClear(httptest.NewRecorder(), req); ok {
		t.Fatal("expected garbage cookie to be rejected")
	}
}

func TestNormalizeNoticeTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	long := make([]byte, maxMessageLen+50)
	for i := range long {
		long[i] = 'x'
	}
	notice, ok := normalizeNotice(Error(string(long)))
	if !ok {
		t.Fatal("expected notice")
	}
	if len(notice.Message) != maxMessageLen {
		t.Fatalf("len = %d, want %d", len(notice.Message), maxMessageLen)
	}
}

func TestNormalizeNoticeTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	message := "x" + strings.Repeat("✅", 200)
	notice, ok := normalizeNotice(Success(message))
	if !ok {
		t.Fatal("expected notice")
	}
	if !utf8.ValidString(notice.Message) {
		t.Fatalf("truncated message is not valid UTF-8: %q", notice.Message[len(notice.Message)-4:])
	}
	if len(notice.Message) != maxMessageLen-1 {
		t.Fatalf("len = %d, want %d", len(notice.Message), maxMessageLen-1)
	}
	if !strings.HasPrefix(message, notice.Message) {
		t.Fatal("truncated message should be a prefix of the original")
	}
}
