package foursquare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func checkinsHandler(t *testing.T, total int, offsets *[]int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/self/checkins", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "tok", q.Get("oauth_token"))
		require.Equal(t, strconv.Itoa(PageLimit), q.Get("limit"))
		require.Equal(t, "newestfirst", q.Get("sort"))
		require.NotEmpty(t, q.Get("v"))

		offset, err := strconv.Atoi(q.Get("offset"))
		require.NoError(t, err)
		*offsets = append(*offsets, offset)

		n := total - offset
		if n > PageLimit {
			n = PageLimit
		}
		if n < 0 {
			n = 0
		}
		items := make([]Checkin, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, Checkin{ID: fmt.Sprintf("c%d", offset+i), CreatedAt: 1500000000})
		}

		writeEnvelope(t, w, map[string]any{
			"checkins": CheckinsPage{Count: total, Items: items},
		})
	}
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, response any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"meta":     map[string]any{"code": 200},
		"response": response,
	})
	require.NoError(t, err)
}

func TestCheckinsRecent(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(checkinsHandler(t, 600, &offsets))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	checkins, err := client.CheckinsRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, checkins, PageLimit)
	require.Equal(t, []int{0}, offsets)
	require.Equal(t, "c0", checkins[0].ID)
}

func TestCheckinsAllPaginates(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(checkinsHandler(t, 600, &offsets))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	checkins, err := client.CheckinsAll(context.Background())
	require.NoError(t, err)
	require.Len(t, checkins, 600)
	require.Equal(t, []int{0, 250, 500}, offsets)
	require.Equal(t, "c0", checkins[0].ID)
	require.Equal(t, "c599", checkins[len(checkins)-1].ID)
}

func TestCheckinsAllSinglePage(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(checkinsHandler(t, 10, &offsets))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	checkins, err := client.CheckinsAll(context.Background())
	require.NoError(t, err)
	require.Len(t, checkins, 10)
	require.Equal(t, []int{0}, offsets)
}

func TestCheckinsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"meta":{"code":401,"errorType":"invalid_auth","errorDetail":"OAuth token invalid"}}`)
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	_, err := client.CheckinsAll(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.Code)
	require.ErrorContains(t, err, "offset of 0")
}

func TestCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/self", r.URL.Path)
		writeEnvelope(t, w, map[string]any{
			"user": User{
				ID:           "99",
				FirstName:    "Phil",
				LastName:     "Gyford",
				CanonicalURL: "https://foursquare.com/philgyford",
			},
		})
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://foursquare.com/philgyford", user.CanonicalURL)
	require.Equal(t, "Phil Gyford", user.FullName())
}
