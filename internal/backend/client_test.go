package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-configurator/internal/submission"
	"github.com/angelmondragon/packfinderz-configurator/pkg/config"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.BackendConfig{BaseURL: srv.URL + "/api", Token: "secret", Timeout: time.Second}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.BackendConfig{}, nil)
	require.Error(t, err)
}

func TestFetchOptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/options/colors", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"red","name":"Red","status":"active"},{"id":"black","name":"Black","status":"inactive"}]}`))
	})

	options, err := client.FetchOptions(t.Context(), enums.OptionKindColor)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.True(t, options[0].IsActive())
	assert.False(t, options[1].IsActive())

	_, err = client.FetchOptions(t.Context(), enums.OptionKind("planets"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFetchDiscounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/discounts", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"summer","code":"SUMMER","kind":"percent","amount":"15","valid_to":"2026-09-01T00:00:00Z"}]}`))
	})

	discounts, err := client.FetchDiscounts(t.Context())
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.True(t, discounts[0].Amount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, enums.DiscountKindPercent, discounts[0].Kind)
	assert.True(t, discounts[0].ExpiredAt(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFetchFailureIsDependencyError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.FetchOptions(t.Context(), enums.OptionKindSize)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestCreateProduct(t *testing.T) {
	var received submission.ProductPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"prod-9","name":"Linen Shirt"}}`))
	})

	discount := "summer"
	created, err := client.CreateProduct(t.Context(), submission.ProductPayload{
		Name: "Linen Shirt",
		Variants: []submission.VariantPayload{{
			ColorID:    "red",
			SizeID:     "s",
			Stock:      5,
			CostPrice:  decimal.NewFromInt(10000),
			SellPrice:  decimal.NewFromInt(20000),
			DiscountID: &discount,
			Images:     []submission.ImagePayload{{Data: "data:image/png;base64,AA==", IsDefault: true}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "prod-9", created.ID)
	require.Len(t, received.Variants, 1)
	assert.Equal(t, "summer", *received.Variants[0].DiscountID)
	assert.True(t, received.Variants[0].SellPrice.Equal(decimal.NewFromInt(20000)))
}

func TestCreateProductErrorMessages(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"envelope", "application/json", `{"error":{"code":"CONFLICT","message":"Product name already exists"}}`, "Product name already exists"},
		{"flat", "application/json", `{"code":"bad","message":"SKU clash"}`, "SKU clash"},
		{"plain text", "text/plain; charset=utf-8", "Out of quota\n", "Out of quota"},
		{"html", "text/html", "<html>oops</html>", ""},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.CreateProduct(t.Context(), submission.ProductPayload{Name: "x"})
			var remote *submission.RemoteError
			require.True(t, errors.As(err, &remote), "got %v", err)
			assert.Equal(t, http.StatusUnprocessableEntity, remote.Status)
			assert.Equal(t, tc.want, remote.Message)
		})
	}
}
