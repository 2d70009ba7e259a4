package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Library Circulation API",
        "description": "Borrow/return lifecycle, fines, clearance, and borrow statistics for a library circulation desk.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Staff authentication"},
        {"name": "Circulation", "description": "Borrow/return lifecycle"},
        {"name": "Loans", "description": "Loan history and overdue queries"},
        {"name": "Fines", "description": "Penalty settlement"},
        {"name": "Clearance", "description": "Patron eligibility projection"},
        {"name": "Catalog", "description": "Titles, copies, barcode lookups"},
        {"name": "Settings", "description": "Circulation policy administration"},
        {"name": "Statistics", "description": "Borrow counts per Dewey range"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a staff member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/circulation/borrow": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Borrow an asset for a patron",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BorrowRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Precondition failed (fines, limit, availability)"}
                }
            }
        },
        "/circulation/return": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Return a borrowed asset",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssetCodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/circulation/lost": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Mark a borrowed asset as lost",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssetCodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assets/{id}/damage": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Pull an available asset out of circulation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/assets/{id}/repair": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Return a damaged asset to circulation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assets/{id}/restore": {
            "post": {
                "tags": ["Circulation"],
                "summary": "Restore a lost asset once its fine is settled",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Replacement fine unsettled"}
                }
            }
        },
        "/barcode/{code}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Resolve a scanned barcode",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assets/available": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List copies currently on the shelf",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assets/borrowed": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List copies currently out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/titles": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a bibliographic record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTitleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assets": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Register a physical copy",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/loans": {
            "get": {
                "tags": ["Loans"],
                "summary": "List loans with filters and pagination",
                "parameters": [
                    {"name": "patronClass", "in": "query", "type": "string"},
                    {"name": "assetCode", "in": "query", "type": "string"},
                    {"name": "open", "in": "query", "type": "boolean"},
                    {"name": "overdue", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/loans/overdue": {
            "get": {
                "tags": ["Loans"],
                "summary": "List open loans past their due date",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/loans/export": {
            "get": {
                "tags": ["Loans"],
                "summary": "Export filtered loan history as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV content"}
                }
            }
        },
        "/loans/overdue/export": {
            "get": {
                "tags": ["Loans"],
                "summary": "Export the overdue list as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF content"}
                }
            }
        },
        "/loans/{id}/fine/pay": {
            "post": {
                "tags": ["Fines"],
                "summary": "Mark a loan's fine as paid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No penalty or already settled"}
                }
            }
        },
        "/loans/{id}/fine/waive": {
            "post": {
                "tags": ["Fines"],
                "summary": "Waive a loan's fine with a reason",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WaiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/loans/{id}/fine/unpay": {
            "post": {
                "tags": ["Fines"],
                "summary": "Revert a settled fine back to pending",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patrons/{code}/loans": {
            "get": {
                "tags": ["Loans"],
                "summary": "List a patron's loan history",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patrons/{code}/fines": {
            "get": {
                "tags": ["Fines"],
                "summary": "List a patron's pending fines",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patrons/{code}/clearance": {
            "get": {
                "tags": ["Clearance"],
                "summary": "Evaluate a patron's borrowing clearance",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "List circulation settings",
                "parameters": [
                    {"name": "group", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Update circulation settings by key",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settings/policy/{class}": {
            "get": {
                "tags": ["Settings"],
                "summary": "Show the effective loan policy for a patron class",
                "parameters": [
                    {"name": "class", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Yearly borrow counts per Dewey range",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/statistics/export/csv": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Export yearly statistics as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV content"}
                }
            }
        },
        "/statistics/export/pdf": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Export yearly statistics as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF content"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "BorrowRequest": {
            "type": "object",
            "required": ["patron_code", "asset_code"],
            "properties": {
                "patron_code": {"type": "string"},
                "asset_code": {"type": "string"},
                "processed_by": {"type": "string"}
            }
        },
        "AssetCodeRequest": {
            "type": "object",
            "required": ["asset_code"],
            "properties": {
                "asset_code": {"type": "string"}
            }
        },
        "WaiveRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "CreateTitleRequest": {
            "type": "object",
            "required": ["title", "author"],
            "properties": {
                "title": {"type": "string"},
                "author": {"type": "string"},
                "isbn": {"type": "string"},
                "call_number": {"type": "string"},
                "category": {"type": "string"},
                "price": {"type": "string"}
            }
        },
        "CreateAssetRequest": {
            "type": "object",
            "required": ["asset_code", "title_id"],
            "properties": {
                "asset_code": {"type": "string"},
                "title_id": {"type": "string"},
                "building": {"type": "string"},
                "aisle": {"type": "string"},
                "shelf": {"type": "string"}
            }
        },
        "BulkSettingsRequest": {
            "type": "object",
            "required": ["values"],
            "properties": {
                "values": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
