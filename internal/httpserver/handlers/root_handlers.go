package handlers

import (
	"net/http"
)

const Version = "1.0.0"

func Welcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message":       "Welcome to the TacticalAPI for the Tactical AI Bot",
		"version":       Version,
		"status":        "online",
		"documentation": "/api/docs",
	})
}

type endpointDoc struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

var endpointDocs = []endpointDoc{
	{Path: "/api/auth", Methods: []string{"GET", "POST"}, Description: "Authentication endpoints"},
	{Path: "/api/users", Methods: []string{"GET", "POST", "PUT", "DELETE"}, Description: "User management"},
	{Path: "/api/bot", Methods: []string{"GET", "POST", "PUT"}, Description: "Bot status, health and statistics"},
	{Path: "/api/guilds", Methods: []string{"GET", "PUT", "DELETE"}, Description: "Guild management"},
	{Path: "/api/commands", Methods: []string{"GET", "PUT"}, Description: "List and toggle available commands"},
}

func Docs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message":   "API Documentation",
		"endpoints": endpointDocs,
	})
}
