// Package docs registers the OpenAPI document for the seqfeat HTTP API with swag
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/meta/health": {
      "get": {
        "tags": ["Meta"],
        "summary": "Liveness plus a ping of every configured store",
        "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}}}
      }
    },
    "/meta/version": {
      "get": {
        "tags": ["Meta"],
        "summary": "Build info and the alphabet the service encodes with",
        "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}}}
      }
    },
    "/alphabet": {
      "get": {
        "tags": ["Features"],
        "summary": "Ordered symbols and the padding index",
        "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AlphabetResponse"}}}}}
      }
    },
    "/features": {
      "post": {
        "tags": ["Features"],
        "summary": "Encode a batch of records with a shared padded length",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/FeaturesRequest"}}}},
        "responses": {
          "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
          "422": {"description": "Empty sequence, empty batch or too many records", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
          "503": {"description": "persist requested but no database is configured", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/encode": {
      "post": {
        "tags": ["Features"],
        "summary": "Encode one sequence",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/EncodeRequest"}}}},
        "responses": {
          "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
          "422": {"description": "padded_length shorter than the sequence or above the configured cap", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/runs": {
      "get": {
        "tags": ["Features"],
        "summary": "Read back a persisted run from postgres",
        "parameters": [{"name": "id", "in": "query", "required": true, "schema": {"type": "string", "format": "uuid"}}],
        "responses": {
          "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
          "404": {"description": "Unknown run", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Record": {
        "type": "object",
        "required": ["id"],
        "properties": {"id": {"type": "string"}, "sequence": {"type": "string"}}
      },
      "FeaturesRequest": {
        "type": "object",
        "properties": {
          "records": {"type": "array", "items": {"$ref": "#/components/schemas/Record"}},
          "persist": {"type": "boolean"}
        }
      },
      "EncodeRequest": {
        "type": "object",
        "properties": {"sequence": {"type": "string", "example": "MKV"}, "padded_length": {"type": "integer", "minimum": 0, "maximum": 1000000}}
      },
      "AlphabetResponse": {
        "type": "object",
        "properties": {
          "symbols": {"type": "array", "items": {"type": "string"}},
          "padding_index": {"type": "integer", "example": 20},
          "width": {"type": "integer", "example": 21}
        }
      },
      "Envelope": {
        "type": "object",
        "properties": {
          "status_code": {"type": "integer"},
          "status": {"type": "string"},
          "request_id": {"type": "string"},
          "data": {"type": "object"}
        }
      }
    }
  }
}`

// SwaggerInfo holds the exported document info so callers can stamp the build version
var SwaggerInfo = &swag.Spec{
	Version:          "dev",
	Title:            "seqfeat API",
	Description:      "Protein sequence one-hot and composition features",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
