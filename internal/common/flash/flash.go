// Package flash carries one-shot confirmation messages across the
// Post/Redirect/Get hop that follows a successful claim submission.
package flash

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie holding the flash id.
const CookieName = "flash"

// Message is what the next page renders as a modal.
type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Variant string `json:"variant"` // success | danger
}

// Store keeps messages until they are popped once or expire.
type Store interface {
	Put(ctx context.Context, msg Message) (string, error)
	// Pop returns nil, nil when id is unknown or expired.
	Pop(ctx context.Context, id string) (*Message, error)
}

func newID() string {
	return uuid.NewString()
}

// SetCookie points the browser at a stored message.
func SetCookie(w http.ResponseWriter, id string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFromRequest consumes the flash referenced by the request cookie, if any,
// and expires the cookie.
func PopFromRequest(ctx context.Context, store Store, w http.ResponseWriter, r *http.Request) (*Message, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if _, err := uuid.Parse(c.Value); err != nil {
		return nil, nil
	}
	return store.Pop(ctx, c.Value)
}
