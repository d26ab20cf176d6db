package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/policy"
	"github.com/meinhoongagan/feastbook/redis"
	"github.com/meinhoongagan/feastbook/repository"
	"github.com/meinhoongagan/feastbook/utils"
)

type harness struct {
	t   *testing.T
	app *fiber.App
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, now: time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return h.now }

	deps := &controllers.Deps{
		Store:    repository.NewMemoryStore(clock),
		Policy:   policy.New(0, nil),
		Cache:    redis.NoopCatalogCache{},
		Denylist: redis.NewMemoryDenylist(nil),
		Tokens:   utils.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour),
		Log:      zap.NewNop(),
		Now:      clock,
	}
	h.app = NewApp(deps)
	return h
}

func (h *harness) do(method, path, token string, body interface{}) (int, []byte) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *harness) decode(raw []byte, v interface{}) {
	h.t.Helper()
	require.NoError(h.t, json.Unmarshal(raw, v), string(raw))
}

func (h *harness) expectError(status int, raw []byte, wantStatus int, wantMessage string) {
	h.t.Helper()
	require.Equal(h.t, wantStatus, status, string(raw))
	var e utils.ErrorResponse
	h.decode(raw, &e)
	assert.Equal(h.t, wantMessage, e.Message)
}

// signup registers an account and logs it in with the matching role.
func (h *harness) signup(email, role string, profile map[string]string) string {
	h.t.Helper()
	body := map[string]string{"email": email, "password": "hunter22", "role": role}
	for k, v := range profile {
		body[k] = v
	}
	status, raw := h.do(http.MethodPost, "/auth/register", "", body)
	require.Equal(h.t, http.StatusCreated, status, string(raw))

	status, raw = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "hunter22", "role": role,
	})
	require.Equal(h.t, http.StatusOK, status, string(raw))
	var out struct {
		Token string `json:"token"`
	}
	h.decode(raw, &out)
	require.NotEmpty(h.t, out.Token)
	return out.Token
}

type serviceJSON struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Sellers  *struct {
		BusinessName string `json:"business_name"`
	} `json:"sellers"`
}

type bookingJSON struct {
	ID      string         `json:"id"`
	Status  string         `json:"status"`
	Actions policy.Actions `json:"actions"`
	Review  *struct {
		ID string `json:"id"`
	} `json:"reviews"`
	Customer *struct {
		FullName string `json:"full_name"`
	} `json:"customers"`
}

type transitionJSON struct {
	Booking  bookingJSON   `json:"booking"`
	Bookings []bookingJSON `json:"bookings"`
}

func (h *harness) createService(token string) serviceJSON {
	h.t.Helper()
	status, raw := h.do(http.MethodPost, "/seller/services", token, map[string]interface{}{
		"title":       "Wedding buffet",
		"description": "Three courses for up to 200 guests",
		"price":       "2500",
		"category":    "Wedding",
	})
	require.Equal(h.t, http.StatusCreated, status, string(raw))
	var svc serviceJSON
	h.decode(raw, &svc)
	return svc
}

func (h *harness) book(token, serviceID string, at time.Time) bookingJSON {
	h.t.Helper()
	status, raw := h.do(http.MethodPost, "/customer/bookings", token, map[string]string{
		"service_id":   serviceID,
		"booking_date": at.Format(time.RFC3339),
	})
	require.Equal(h.t, http.StatusCreated, status, string(raw))
	var b bookingJSON
	h.decode(raw, &b)
	return b
}

func TestBookingLifecycle(t *testing.T) {
	h := newHarness(t)
	sellerToken := h.signup("bistro@example.com", "seller", map[string]string{"business_name": "Bistro"})
	customerToken := h.signup("ana@example.com", "customer", map[string]string{"full_name": "Ana"})

	svc := h.createService(sellerToken)
	assert.Equal(t, "wedding", svc.Category)

	// Lead-time and date checks run in order before anything is written.
	status, raw := h.do(http.MethodPost, "/customer/bookings", customerToken, map[string]string{"service_id": svc.ID})
	h.expectError(status, raw, http.StatusBadRequest, policy.MsgDateRequired)
	status, raw = h.do(http.MethodPost, "/customer/bookings", customerToken, map[string]string{
		"service_id": svc.ID, "booking_date": h.now.Add(-time.Minute).Format(time.RFC3339),
	})
	h.expectError(status, raw, http.StatusBadRequest, policy.MsgDateInPast)
	status, raw = h.do(http.MethodPost, "/customer/bookings", customerToken, map[string]string{
		"service_id": svc.ID, "booking_date": h.now.Add(30 * time.Minute).Format(time.RFC3339),
	})
	h.expectError(status, raw, http.StatusBadRequest, "Please book at least 1 hour in advance.")

	booking := h.book(customerToken, svc.ID, h.now.Add(2*time.Hour))
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, policy.Actions{Cancel: true}, booking.Actions)

	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/complete", customerToken, nil)
	h.expectError(status, raw, http.StatusConflict, policy.MsgNotCompletable)

	status, raw = h.do(http.MethodPost, "/seller/bookings/"+booking.ID+"/confirm", sellerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var confirmed transitionJSON
	h.decode(raw, &confirmed)
	assert.Equal(t, "confirmed", confirmed.Booking.Status)
	require.Len(t, confirmed.Bookings, 1)
	require.NotNil(t, confirmed.Bookings[0].Customer)
	assert.Equal(t, "Ana", confirmed.Bookings[0].Customer.FullName)
	assert.Equal(t, policy.Actions{Cancel: true, Complete: true}, confirmed.Bookings[0].Actions)

	// Confirmed and due today: the customer may only mark it finished.
	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/cancel", customerToken, nil)
	h.expectError(status, raw, http.StatusConflict, policy.MsgNotCancellable)

	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/review", customerToken, map[string]int{"rating": 4})
	h.expectError(status, raw, http.StatusBadRequest, policy.MsgNotReviewable)

	h.now = h.now.Add(3 * time.Hour)
	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/complete", customerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var completed transitionJSON
	h.decode(raw, &completed)
	assert.Equal(t, "completed", completed.Booking.Status)
	require.Len(t, completed.Bookings, 1)
	assert.Equal(t, policy.Actions{Review: true}, completed.Bookings[0].Actions)

	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/review", customerToken, map[string]string{"rating": "6"})
	h.expectError(status, raw, http.StatusBadRequest, policy.MsgInvalidRating)

	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/review", customerToken, map[string]interface{}{
		"rating": 4, "comment": "Lovely food",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var reviewed struct {
		Bookings []bookingJSON `json:"bookings"`
	}
	h.decode(raw, &reviewed)
	require.Len(t, reviewed.Bookings, 1)
	assert.False(t, reviewed.Bookings[0].Actions.Review)
	require.NotNil(t, reviewed.Bookings[0].Review)
	assert.NotEmpty(t, reviewed.Bookings[0].Review.ID)

	status, raw = h.do(http.MethodPost, "/customer/bookings/"+booking.ID+"/review", customerToken, map[string]int{"rating": 5})
	h.expectError(status, raw, http.StatusBadRequest, policy.MsgNotReviewable)

	status, raw = h.do(http.MethodGet, "/services/"+svc.ID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var reviews []struct {
		Rating int `json:"rating"`
	}
	h.decode(raw, &reviews)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)

	// Terminal states do not move.
	status, raw = h.do(http.MethodPost, "/seller/bookings/"+booking.ID+"/cancel", sellerToken, nil)
	h.expectError(status, raw, http.StatusConflict, policy.MsgNotCancellable)
}

func TestCancelRules(t *testing.T) {
	h := newHarness(t)
	sellerToken := h.signup("bistro@example.com", "seller", map[string]string{"business_name": "Bistro"})
	otherSeller := h.signup("deli@example.com", "seller", map[string]string{"business_name": "Deli"})
	customerToken := h.signup("ana@example.com", "customer", map[string]string{"full_name": "Ana"})
	svc := h.createService(sellerToken)

	future := h.book(customerToken, svc.ID, h.now.Add(72*time.Hour))

	status, raw := h.do(http.MethodPost, "/seller/bookings/"+future.ID+"/confirm", otherSeller, nil)
	h.expectError(status, raw, http.StatusNotFound, policy.MsgBookingNotFound)

	status, raw = h.do(http.MethodPost, "/seller/bookings/"+future.ID+"/confirm", sellerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	// Confirmed but still in the future: the customer may cancel.
	status, raw = h.do(http.MethodPost, "/customer/bookings/"+future.ID+"/cancel", customerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var cancelled transitionJSON
	h.decode(raw, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Booking.Status)
	assert.Equal(t, policy.Actions{}, cancelled.Bookings[0].Actions)

	second := h.book(customerToken, svc.ID, h.now.Add(2*time.Hour))
	status, raw = h.do(http.MethodPost, "/seller/bookings/"+second.ID+"/cancel", sellerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = h.do(http.MethodGet, "/seller/bookings?status=cancelled", sellerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var list []bookingJSON
	h.decode(raw, &list)
	assert.Len(t, list, 2)

	status, raw = h.do(http.MethodGet, "/seller/bookings?status=pending", sellerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	h.decode(raw, &list)
	assert.Empty(t, list)
}

func TestCatalogAndFavorites(t *testing.T) {
	h := newHarness(t)
	sellerToken := h.signup("bistro@example.com", "seller", map[string]string{"business_name": "Bistro"})
	customerToken := h.signup("ana@example.com", "customer", map[string]string{"full_name": "Ana"})
	svc := h.createService(sellerToken)

	for query, want := range map[string]int{"": 1, "?category=All": 1, "?category=WEDDING": 1, "?category=casual": 0} {
		status, raw := h.do(http.MethodGet, "/services"+query, "", nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		var services []serviceJSON
		h.decode(raw, &services)
		assert.Len(t, services, want, query)
		if want > 0 {
			require.NotNil(t, services[0].Sellers)
			assert.Equal(t, "Bistro", services[0].Sellers.BusinessName)
		}
	}

	toggle := func() bool {
		status, raw := h.do(http.MethodPost, "/customer/favorites/"+svc.ID+"/toggle", customerToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		var out struct {
			Favorited bool `json:"favorited"`
		}
		h.decode(raw, &out)
		return out.Favorited
	}
	assert.True(t, toggle())

	status, raw := h.do(http.MethodGet, "/customer/favorites/ids", customerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var ids []string
	h.decode(raw, &ids)
	assert.Equal(t, []string{svc.ID}, ids)

	assert.False(t, toggle())
	status, raw = h.do(http.MethodGet, "/customer/favorites", customerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, `[]`, string(raw))

	status, raw = h.do(http.MethodPost, "/seller/services", sellerToken, map[string]string{"title": "Lunch"})
	h.expectError(status, raw, http.StatusBadRequest, "Please fill all fields.")
}

func TestAuthRules(t *testing.T) {
	h := newHarness(t)
	customerToken := h.signup("ana@example.com", "customer", map[string]string{"full_name": "Ana"})

	status, raw := h.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "x",
	})
	require.Equal(t, http.StatusConflict, status, string(raw))

	status, raw = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "hunter22", "role": "seller",
	})
	h.expectError(status, raw, http.StatusUnauthorized,
		"This account is registered as a customer. Please switch role to continue.")

	status, raw = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	h.expectError(status, raw, http.StatusUnauthorized, controllers.MsgInvalidCredentials)

	status, raw = h.do(http.MethodGet, "/seller/bookings", customerToken, nil)
	require.Equal(t, http.StatusForbidden, status, string(raw))

	status, raw = h.do(http.MethodGet, "/auth/me", customerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var me struct {
		Role    string `json:"role"`
		Profile struct {
			FullName string `json:"full_name"`
		} `json:"profile"`
	}
	h.decode(raw, &me)
	assert.Equal(t, "customer", me.Role)
	assert.Equal(t, "Ana", me.Profile.FullName)

	status, raw = h.do(http.MethodPost, "/auth/logout", customerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, _ = h.do(http.MethodGet, "/auth/me", customerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
