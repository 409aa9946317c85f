// Package docs registers the OpenAPI document served at /swagger/*any.
// Regenerate with: swag init -g main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/books": {
            "get": {
                "tags": ["books"], "summary": "Search books", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "title", "in": "query"},
                    {"type": "string", "name": "author", "in": "query"},
                    {"type": "string", "name": "isbn", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BookPage"}}}
            },
            "post": {
                "tags": ["books"], "summary": "Register a book", "security": [{"Bearer": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Book"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/books/{id}": {
            "get": {
                "tags": ["books"], "summary": "Get a book", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["books"], "summary": "Update title and author of a book", "security": [{"Bearer": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Book"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "tags": ["books"], "summary": "Delete a book", "security": [{"Bearer": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/books/{id}/loans": {
            "get": {
                "tags": ["loans"], "summary": "Loans of a book", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanPage"}}, "404": {"description": "Not Found"}}
            }
        },
        "/loans": {
            "get": {
                "tags": ["loans"], "summary": "Search loans by isbn or customer", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "isbn", "in": "query"},
                    {"type": "string", "name": "customer", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LoanPage"}}}
            },
            "post": {
                "tags": ["loans"], "summary": "Loan a book to a customer", "security": [{"Bearer": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLoanRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CreateLoanResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/loans/{id}": {
            "get": {
                "tags": ["loans"], "summary": "Get a loan", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Loan"}}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "tags": ["loans"], "summary": "Set the returned flag of a loan", "security": [{"Bearer": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLoanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Loan"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/late-loans": {
            "get": {
                "tags": ["loans"], "summary": "Unreturned loans older than the late threshold", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LateLoans"}}}
            }
        },
        "/late-loans/export": {
            "get": {
                "tags": ["loans"], "summary": "Late loans as CSV", "produces": ["text/csv"],
                "parameters": [{"type": "string", "name": "encoding", "in": "query", "enum": ["utf-8", "shift_jis"]}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Issue a bearer token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/librarians": {
            "post": {
                "tags": ["auth"], "summary": "Create a librarian account (admin)", "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/auth/librarians/{id}": {
            "delete": {
                "tags": ["auth"], "summary": "Delete a librarian account (admin)", "security": [{"Bearer": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "ErrorBody": {"type": "object", "properties": {"errors": {"type": "array", "items": {"type": "string"}}}},
        "Book": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "title": {"type": "string"}, "author": {"type": "string"}, "isbn": {"type": "string"}}
        },
        "CreateBookRequest": {
            "type": "object", "required": ["title", "author", "isbn"],
            "properties": {"title": {"type": "string"}, "author": {"type": "string"}, "isbn": {"type": "string"}}
        },
        "UpdateBookRequest": {
            "type": "object", "required": ["title", "author"],
            "properties": {"title": {"type": "string"}, "author": {"type": "string"}}
        },
        "BookPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Book"}},
                "total": {"type": "integer"}, "page": {"type": "integer"}, "size": {"type": "integer"}
            }
        },
        "Loan": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"}, "book": {"$ref": "#/definitions/Book"}, "customer": {"type": "string"},
                "loan_date": {"type": "string", "format": "date"}, "returned": {"type": "boolean", "x-nullable": true}
            }
        },
        "CreateLoanRequest": {
            "type": "object", "required": ["isbn", "customer"],
            "properties": {"isbn": {"type": "string"}, "customer": {"type": "string"}}
        },
        "CreateLoanResponse": {"type": "object", "properties": {"id": {"type": "integer"}}},
        "UpdateLoanRequest": {"type": "object", "required": ["returned"], "properties": {"returned": {"type": "boolean"}}},
        "LoanPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Loan"}},
                "total": {"type": "integer"}, "page": {"type": "integer"}, "size": {"type": "integer"}
            }
        },
        "LateLoans": {
            "type": "object",
            "properties": {"cutoff": {"type": "string", "format": "date"}, "items": {"type": "array", "items": {"$ref": "#/definitions/Loan"}}}
        },
        "LoginRequest": {"type": "object", "required": ["id", "password"], "properties": {"id": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "RegisterRequest": {
            "type": "object", "required": ["id", "password"],
            "properties": {"id": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string", "enum": ["admin", "librarian"]}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Library API",
	Description:      "Books and loans of a lending library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
