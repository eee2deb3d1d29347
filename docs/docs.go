// Package docs registers the API description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Organizer login", "responses": {"200": {"description": "Bearer token"}, "401": {"description": "Wrong password"}}}},
        "/players": {
            "get": {"tags": ["players"], "summary": "List the roster", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["players"], "summary": "Add a player to the roster", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/runs": {"get": {"tags": ["runs"], "summary": "List runs", "responses": {"200": {"description": "OK"}}}},
        "/runs/bracket": {"post": {"tags": ["runs"], "summary": "Build a single-elimination bracket", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Too few players"}}}},
        "/runs/swiss": {"post": {"tags": ["runs"], "summary": "Start a Swiss run and pair round one", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/runs/hybrid": {"post": {"tags": ["runs"], "summary": "Start hybrid preliminaries", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/runs/{runID}": {"get": {"tags": ["runs"], "summary": "Get a run with its full format state", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/runs/{runID}/standings": {"get": {"tags": ["runs"], "summary": "Final standings of a run", "responses": {"200": {"description": "OK"}, "409": {"description": "Run cannot be ranked yet"}}}},
        "/runs/{runID}/groups/standings": {"get": {"tags": ["runs"], "summary": "Preliminary group standings of a hybrid run", "responses": {"200": {"description": "OK"}, "400": {"description": "Not a hybrid run"}}}},
        "/runs/{runID}/bracket/matches/{matchID}/winner": {"put": {"tags": ["runs"], "summary": "Set or clear a bracket match winner", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Version conflict"}}}},
        "/runs/{runID}/bracket/reset": {"post": {"tags": ["runs"], "summary": "Clear every bracket result except byes", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/runs/{runID}/swiss/matches/{matchID}/result": {"put": {"tags": ["runs"], "summary": "Set or clear a result in the latest Swiss round", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/runs/{runID}/swiss/rounds": {"post": {"tags": ["runs"], "summary": "Pair the next Swiss round", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Latest round unresolved"}}}},
        "/runs/{runID}/swiss/rounds/cancel": {"post": {"tags": ["runs"], "summary": "Drop the latest Swiss round", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "No rounds"}}}},
        "/runs/{runID}/swiss/rounds/reshuffle": {"post": {"tags": ["runs"], "summary": "Pair the latest Swiss round again", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/runs/{runID}/hybrid/matches/{matchID}/result": {"put": {"tags": ["runs"], "summary": "Set or clear a group match result", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/runs/{runID}/hybrid/advance": {"post": {"tags": ["runs"], "summary": "Advance group leaders into the finals bracket", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Preliminaries unresolved"}}}},
        "/ratings": {"get": {"tags": ["ratings"], "summary": "Current ratings", "responses": {"200": {"description": "OK"}}}},
        "/ratings/players": {"post": {"tags": ["ratings"], "summary": "Enter a roster player into the rated pool", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Player already rated"}}}},
        "/ratings/duels": {
            "get": {"tags": ["ratings"], "summary": "Full duel log", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["ratings"], "summary": "Record a duel", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "404": {"description": "Player not rated"}}}
        },
        "/ratings/duels/{duelID}/cancel": {"post": {"tags": ["ratings"], "summary": "Cancel a duel and replay later history", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Competition Engine API",
	Description:      "Brackets, Swiss runs, hybrid tournaments and duel ratings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
