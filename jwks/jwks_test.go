package jwks

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecodeSegmentPaddingVariants(t *testing.T) {
	want := []byte("hello world!")
	unpadded := base64.RawURLEncoding.EncodeToString(want)
	padded := base64.URLEncoding.EncodeToString(want)

	for _, in := range []string{unpadded, padded} {
		got, err := DecodeSegment(in)
		if err != nil {
			t.Fatalf("DecodeSegment(%q): %v", in, err)
		}
		if string(got) != string(want) {
			t.Fatalf("DecodeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseHeaderSegmentCount(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","kid":"k1"}`))
	for _, token := range []string{"", header, header + ".payload", header + ".a.b.c"} {
		if _, err := ParseHeader(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: got %v, want ErrInvalidToken", token, err)
		}
	}

	parsed, err := ParseHeader(header + ".payload.sig")
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Alg != "RS256" || parsed.Kid != "k1" {
		t.Fatalf("unexpected header %+v", parsed)
	}
}

func TestParseHeaderBadEncoding(t *testing.T) {
	if _, err := ParseHeader("!!!.payload.sig"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}

	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	var parseErr *ParseError
	if _, err := ParseHeader(notJSON + ".payload.sig"); !errors.As(err, &parseErr) {
		t.Fatalf("got %v, want ParseError", err)
	}
}

func TestFetchStatusAndBodyErrors(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer broken.Close()

	var netErr *NetworkError
	if _, err := Fetch(context.Background(), broken.URL); !errors.As(err, &netErr) {
		t.Fatalf("got %v, want NetworkError", err)
	}

	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer garbled.Close()

	var parseErr *ParseError
	if _, err := Fetch(context.Background(), garbled.URL); !errors.As(err, &parseErr) {
		t.Fatalf("got %v, want ParseError", err)
	}
}

func TestFindKey(t *testing.T) {
	set := &JWKS{Keys: []JWK{{Kty: "RSA", Kid: "a"}, {Kty: "RSA", Kid: "b"}}}
	if set.FindKey("b") == nil {
		t.Fatal("existing key not found")
	}
	if set.FindKey("missing") != nil {
		t.Fatal("missing key reported as found")
	}
}
