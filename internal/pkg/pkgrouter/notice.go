package pkgrouter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

// NoticeCookie is the name of the one-shot cookie carrying a redirect notice.
const NoticeCookie = "godash_notice"

// maxNoticeBytes keeps the cookie well under browser limits.
const maxNoticeBytes = 1024

type noticeContextKey struct{}

// Notice returns the notice left by the previous redirect, if any.
func Notice(ctx context.Context) string {
	msg, _ := ctx.Value(noticeContextKey{}).(string)
	return msg
}

type noticeCodec struct {
	secret []byte
}

func (c noticeCodec) sign(payload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func (c noticeCodec) encode(msg string) string {
	if len(msg) > maxNoticeBytes {
		msg = msg[:maxNoticeBytes]
	}
	payload := base64.RawURLEncoding.EncodeToString([]byte(msg))
	return payload + "." + base64.RawURLEncoding.EncodeToString(c.sign(payload))
}

func (c noticeCodec) decode(value string) (string, bool) {
	payload, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, c.sign(payload)) {
		return "", false
	}

	msg, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}

	return string(msg), true
}

func (c noticeCodec) set(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     NoticeCookie,
		Value:    c.encode(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c noticeCodec) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     NoticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// middlewareNotice consumes the notice cookie. Tampered cookies are dropped.
func middlewareNotice(codec noticeCodec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(NoticeCookie)
			if err == nil {
				codec.clear(w)
				if msg, ok := codec.decode(cookie.Value); ok && msg != "" {
					r = r.WithContext(context.WithValue(r.Context(), noticeContextKey{}, msg))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
