/* Copyright 2025 Giftwise Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package controllers

import (
	"net/http"

	"github.com/giftwise/giftwise/pkg/server/app"
	mw "github.com/giftwise/giftwise/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/health", c.Health.Index, false},

		{"GET", "/v1/session", mw.Auth(a, c.Sessions.Show), true},
		{"DELETE", "/v1/session", mw.Auth(a, c.Sessions.Delete), true},

		{"GET", "/v1/recipients", mw.Auth(a, c.Recipients.Index), true},
		{"POST", "/v1/recipients", mw.Auth(a, c.Recipients.Create), true},
		{"PUT", "/v1/recipients/{id}", mw.Auth(a, c.Recipients.Update), true},
		{"DELETE", "/v1/recipients/{id}", mw.Auth(a, c.Recipients.Delete), true},

		{"GET", "/v1/occasions", mw.Auth(a, c.Occasions.Index), true},
		{"POST", "/v1/occasions", mw.Auth(a, c.Occasions.Create), true},
		{"PUT", "/v1/occasions/{id}", mw.Auth(a, c.Occasions.Update), true},
		{"DELETE", "/v1/occasions/{id}", mw.Auth(a, c.Occasions.Delete), true},

		{"GET", "/v1/gift-ideas", mw.Auth(a, c.GiftIdeas.Index), true},
		{"POST", "/v1/gift-ideas", mw.Auth(a, c.GiftIdeas.Create), true},
		{"PUT", "/v1/gift-ideas/{id}", mw.Auth(a, c.GiftIdeas.Update), true},
		{"DELETE", "/v1/gift-ideas/{id}", mw.Auth(a, c.GiftIdeas.Delete), true},
	}
}

// apiPrefix is the path under which the API routes are mounted
const apiPrefix = "/api"

func registerRoutes(router *mux.Router, prefix string, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(prefix+route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = http.HandlerFunc(mw.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(mw.MethodNotAllowed)

	registerRoutes(router, apiPrefix, mw.APIMw, app, rc.APIRoutes)

	return mw.Global(router), nil
}
