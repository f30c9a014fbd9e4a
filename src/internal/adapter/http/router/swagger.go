package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Paper Trading Engine API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Paper Trading Engine API",
    "version": "1.0.0"
  },
  "paths": {
    "/register": {
      "post": {
        "summary": "Register an account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["username", "password", "confirmation"],
                "properties": {
                  "username": {"type": "string"},
                  "password": {"type": "string"},
                  "confirmation": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Account created"},
          "400": {"description": "Validation error"},
          "409": {"description": "Username already exists"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/login": {
      "post": {
        "summary": "Log in and receive a bearer token",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["username", "password"],
                "properties": {
                  "username": {"type": "string"},
                  "password": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Token issued"},
          "401": {"description": "Invalid username and/or password"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/account": {
      "get": {
        "summary": "Get the signed-in account",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Account"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/account/deposit": {
      "post": {
        "summary": "Add cash to the signed-in account",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["amount"],
                "properties": {
                  "amount": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Cash added"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/quote": {
      "get": {
        "summary": "Look up the current price of a symbol",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "parameters": [
          {"name": "symbol", "in": "query", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "Quote"},
          "400": {"description": "Invalid or unknown symbol"},
          "401": {"description": "Unauthorized"},
          "503": {"description": "Quote unavailable"}
        }
      }
    },
    "/buy": {
      "post": {
        "summary": "Buy whole shares at the current price",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["symbol", "shares"],
                "properties": {
                  "symbol": {"type": "string"},
                  "shares": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Trade confirmation"},
          "400": {"description": "Invalid order, unknown symbol or insufficient funds"},
          "401": {"description": "Unauthorized"},
          "409": {"description": "Concurrent update conflict"},
          "503": {"description": "Quote unavailable"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/sell": {
      "post": {
        "summary": "Sell whole shares at the current price",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["symbol", "shares"],
                "properties": {
                  "symbol": {"type": "string"},
                  "shares": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Trade confirmation"},
          "400": {"description": "Invalid order, symbol not owned or insufficient shares"},
          "401": {"description": "Unauthorized"},
          "409": {"description": "Concurrent update conflict"},
          "503": {"description": "Quote unavailable"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/portfolio": {
      "get": {
        "summary": "Value holdings at current prices",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Portfolio"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "503": {"description": "Quote unavailable"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/history": {
      "get": {
        "summary": "List executed trades, newest first",
        "security": [
          {
            "BearerAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Transaction history"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BearerAuth": {
        "type": "http",
        "scheme": "bearer",
        "bearerFormat": "JWT"
      }
    }
  }
}`
