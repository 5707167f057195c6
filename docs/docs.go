// Package docs StreetSmart Service API.
//
// Дашборд ям: заявки жителей на ремонт, открытые обращения из городской выгрузки,
// уличные снимки Mapillary и состояние выбора точки на карте.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/requests": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Requests"],
                "summary": "Новая заявка на ремонт",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateRepairRequestRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.StatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.StatusResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.StatusResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.StatusResponse"}}
                }
            }
        },
        "/api/upvote": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Requests"],
                "summary": "Голос за заявку",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpvoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.StatusResponse"}}
                }
            }
        },
        "/api/v1/health": {
            "get": {"produces": ["application/json"], "tags": ["Health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/v1/requests": {
            "get": {"produces": ["application/json"], "tags": ["Requests"], "summary": "Все заявки", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/requests/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Requests"],
                "summary": "Последние заявки",
                "parameters": [{"type": "integer", "default": 10, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/potholes": {
            "get": {"produces": ["application/json"], "tags": ["Potholes"], "summary": "Открытые обращения о ямах", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/street-images": {
            "get": {
                "produces": ["application/json"],
                "tags": ["StreetImages"],
                "summary": "Уличные снимки в bbox",
                "parameters": [
                    {"type": "string", "name": "bbox", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/map": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Map"],
                "summary": "Документ карты",
                "parameters": [{"type": "string", "name": "session_id", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/sessions": {
            "post": {"produces": ["application/json"], "tags": ["Sessions"], "summary": "Новая сессия", "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Состояние сессии",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/sessions/{id}/click": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Клик по карте",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ClickRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/sessions/{id}/viewport": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Центр и зум карты",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ViewportRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/sessions/{id}/submit": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Отправка заявки из выбранной точки",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/sessions/{id}/viewer": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Открыть просмотр снимка",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ViewerRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Вернуться к карте",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "dto.CreateRepairRequestRequest": {
            "type": "object",
            "required": ["lat", "lon", "severity"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "severity": {"type": "string", "enum": ["Low", "Medium", "High"]},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.UpvoteRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string"}}
        },
        "dto.ClickRequest": {
            "type": "object",
            "required": ["lat", "lon"],
            "properties": {"lat": {"type": "number"}, "lon": {"type": "number"}}
        },
        "dto.ViewportRequest": {
            "type": "object",
            "properties": {"lat": {"type": "number"}, "lon": {"type": "number"}, "zoom": {"type": "integer"}}
        },
        "dto.SubmitRequest": {
            "type": "object",
            "required": ["severity"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "severity": {"type": "string", "enum": ["Low", "Medium", "High"]}
            }
        },
        "dto.ViewerRequest": {
            "type": "object",
            "required": ["image_id"],
            "properties": {"image_id": {"type": "string"}}
        },
        "utils.StatusResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "StreetSmart Service API",
	Description:      "Pothole dashboard: repair requests, municipal pothole feed, street imagery and map sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
