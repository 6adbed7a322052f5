package middleware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/middleware"
)

func TestRouteTable_Classify(t *testing.T) {
	table := middleware.NewRouteTable(
		[]string{
			"GET:/health",
			"POST:/auth/login",
			"GET:/api/payment/plans",
			"POST:/api/epoint/callback",
		},
		[]string{
			"POST:/auth/logout",
			"GET:/api/payment/order/:orderId/status",
			"/api/admin/*",
			"/api/*",
		},
	)

	tests := []struct {
		name   string
		method string
		path   string
		want   middleware.RouteClass
	}{
		{"exact public", "GET", "/health", middleware.RoutePublic},
		{"exact public with method", "POST", "/auth/login", middleware.RoutePublic},
		{"wrong method on public route", "GET", "/auth/login", middleware.RouteProtected},
		{"exact protected", "POST", "/auth/logout", middleware.RouteProtected},
		{"param pattern", "GET", "/api/payment/order/SUB_1_alice/status", middleware.RouteProtected},
		{"wildcard tail", "DELETE", "/api/admin/blacklist/42", middleware.RouteProtected},
		{"unlisted route defaults to protected", "GET", "/totally/unknown", middleware.RouteProtected},
		{"trailing slash", "GET", "/health/", middleware.RoutePublic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.method, tt.path))
		})
	}
}

func TestRouteTable_ProtectedWins(t *testing.T) {
	t.Run("protected wins between two wildcards", func(t *testing.T) {
		table := middleware.NewRouteTable(
			[]string{"/api/public/*"},
			[]string{"/api/*"},
		)
		assert.Equal(t, middleware.RouteProtected, table.Classify("GET", "/api/public/docs"))
	})

	t.Run("protected exact wins over public exact", func(t *testing.T) {
		table := middleware.NewRouteTable(
			[]string{"GET:/api/reports"},
			[]string{"GET:/api/reports"},
		)
		assert.Equal(t, middleware.RouteProtected, table.Classify("GET", "/api/reports"))
	})

	t.Run("exact public beats protected wildcard", func(t *testing.T) {
		// The catalogue route stays public even under a broad protected glob.
		table := middleware.NewRouteTable(
			[]string{"GET:/api/payment/plans"},
			[]string{"/api/payment/*"},
		)
		assert.Equal(t, middleware.RoutePublic, table.Classify("GET", "/api/payment/plans"))
		assert.Equal(t, middleware.RouteProtected, table.Classify("POST", "/api/payment/order"))
	})
}
