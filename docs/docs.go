package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/catalog": {
            "get": {
                "tags": ["checklist"],
                "summary": "Get the checklist catalog",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Catalog"}}
                }
            }
        },
        "/checklist": {
            "get": {
                "tags": ["checklist"],
                "summary": "Get the current checklist view",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.ChecklistView"}}
                }
            },
            "delete": {
                "tags": ["checklist"],
                "summary": "Clear the checklist and delete the stored slot",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.ChecklistState"}}
                }
            }
        },
        "/checklist/session": {
            "put": {
                "tags": ["checklist"],
                "summary": "Update pilot name and/or date",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.UpdateSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.ChecklistState"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/checklist/items/{category}/{index}/toggle": {
            "post": {
                "tags": ["checklist"],
                "summary": "Toggle one checklist item",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "category", "in": "path", "required": true, "type": "string", "enum": ["normal", "emergency", "site"]},
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ToggleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/checklist/report": {
            "get": {
                "tags": ["checklist"],
                "summary": "Flight report of the current checklist",
                "produces": ["text/html", "text/markdown", "application/json", "application/yaml"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["html", "markdown", "json", "yaml"]}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/install/available": {
            "post": {
                "tags": ["install"],
                "summary": "Report that the browser offered home-screen installation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.InstallFlags"}}
                }
            }
        },
        "/install/outcome": {
            "post": {
                "tags": ["install"],
                "summary": "Report the user's choice on the install prompt",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ports.InstallOutcomeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.InstallOutcomeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/install/prompt": {
            "delete": {
                "tags": ["install"],
                "summary": "Hide the install banner",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/notifications/{kind}": {
            "delete": {
                "tags": ["notifications"],
                "summary": "Hide a transient notification",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["saved", "installed"]}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "entities.Catalog": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "categories": {"type": "array", "items": {"$ref": "#/definitions/entities.Category"}}
            }
        },
        "entities.Category": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "title": {"type": "string"},
                "items": {"type": "array", "items": {"type": "string"}}
            }
        },
        "entities.ChecklistState": {
            "type": "object",
            "properties": {
                "pilotName": {"type": "string"},
                "date": {"type": "string"},
                "completed": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "ports.UpdateSessionRequest": {
            "type": "object",
            "properties": {
                "pilotName": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "ports.InstallOutcomeRequest": {
            "type": "object",
            "required": ["outcome"],
            "properties": {
                "outcome": {"type": "string", "enum": ["accepted", "dismissed"]}
            }
        },
        "ports.InstallFlags": {
            "type": "object",
            "properties": {
                "promptVisible": {"type": "boolean"},
                "successVisible": {"type": "boolean"}
            }
        },
        "ports.ItemView": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "index": {"type": "integer"},
                "text": {"type": "string"},
                "checked": {"type": "boolean"}
            }
        },
        "ports.CategoryView": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "title": {"type": "string"},
                "completed": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/ports.ItemView"}}
            }
        },
        "ports.ChecklistView": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "pilotName": {"type": "string"},
                "date": {"type": "string"},
                "categories": {"type": "array", "items": {"$ref": "#/definitions/ports.CategoryView"}},
                "completed": {"type": "integer"},
                "total": {"type": "integer"},
                "savedVisible": {"type": "boolean"},
                "promptVisible": {"type": "boolean"},
                "successVisible": {"type": "boolean"}
            }
        },
        "http.ToggleResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "checked": {"type": "boolean"},
                "completed": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "http.InstallOutcomeResponse": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string"},
                "promptVisible": {"type": "boolean"},
                "successVisible": {"type": "boolean"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "RPAS Checklist API",
	Description:      "Pre-flight, emergency and site-survey checklist for RPAS pilots",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
