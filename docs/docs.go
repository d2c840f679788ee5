// Package docs is the swagger document served under /swagger/.
package docs

import "github.com/swaggo/swag"

// InstanceName is the swag registry key of this API.
const InstanceName = "coordinator"

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
    "paths": {
        "/ride-requests": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ride-requests"
                ],
                "summary": "Create a ride request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ride-requests/{request_id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ride-requests"
                ],
                "summary": "Get a ride request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request id",
                        "name": "request_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ride-requests/{request_id}/accept": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ride-requests"
                ],
                "summary": "Accept a pending ride request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request id",
                        "name": "request_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ride-requests/{request_id}/cancel": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ride-requests"
                ],
                "summary": "Cancel a ride request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request id",
                        "name": "request_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ride-requests/{request_id}/eligibility": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ride-requests"
                ],
                "summary": "Whether the request may be offered to drivers now",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request id",
                        "name": "request_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ride-requests/{request_id}/ride": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ride-requests"
                ],
                "summary": "Ride of an accepted request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request id",
                        "name": "request_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/riders/me/scheduled": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "riders"
                ],
                "summary": "Upcoming scheduled requests",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "from",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/riders/me/ride-requests": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "riders"
                ],
                "summary": "Ride history, newest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/rides/{ride_id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rides"
                ],
                "summary": "Get a ride",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ride id",
                        "name": "ride_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/rides/{ride_id}/status": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rides"
                ],
                "summary": "Advance a ride to its next status",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ride id",
                        "name": "ride_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/rides/{ride_id}/cancel": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rides"
                ],
                "summary": "Cancel a ride",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ride id",
                        "name": "ride_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/rides/{ride_id}/feedback": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rides"
                ],
                "summary": "Rate a completed ride",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ride id",
                        "name": "ride_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/rides/{ride_id}/chat": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Get or create the chat room of a ride",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ride id",
                        "name": "ride_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/rides/{ride_id}/chat/deactivate": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Close the chat room of a ride",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ride id",
                        "name": "ride_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/chat/rooms/{room_id}/messages": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Messages of a room, oldest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "room id",
                        "name": "room_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Send a chat message",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "room id",
                        "name": "room_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/chat/rooms/{room_id}/read": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Mark messages of the counterparty read",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "room id",
                        "name": "room_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/chat/rooms/{room_id}/unread": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Unread message count",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "room id",
                        "name": "room_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/chat/messages/{message_id}/flag": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Flag a message for safety review",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "message id",
                        "name": "message_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/chat/quick-messages": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Canned message templates",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/push/public-key": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "push"
                ],
                "summary": "VAPID application server key",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/push/subscriptions": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "push"
                ],
                "summary": "Register a push subscription",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "push"
                ],
                "summary": "Deregister a push subscription",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/push/preferences": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "push"
                ],
                "summary": "Notification preferences",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "push"
                ],
                "summary": "Update notification preferences",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/notifications/dispatch": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "notifications"
                ],
                "summary": "Deliver a notification to every active subscription of a user",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Invalid state",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ws/chat/rooms/{room_id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "WebSocket stream of room events, token in access_token",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "room id",
                        "name": "room_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "access_token",
                        "in": "query"
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ride Coordinator API",
	Description:      "Ride lifecycle, per-ride chat rooms and push notification dispatch.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
