package server

import (
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"socialgraph/utils"
)

func sendError(w http.ResponseWriter, errorCode int, message string) {
	log.Info(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCode)
	resp := map[string]string{
		"error": message,
	}
	jsonResp := utils.ToJson(resp)
	w.Write(jsonResp)
}

func sendJson(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(utils.ToJson(value))
}

func sendOk(w http.ResponseWriter) {
	sendJson(w, map[string]bool{"ok": true})
}

func getQueryItem(values url.Values, key string) *string {
	value := values[key]
	result := ""
	if len(value) == 1 {
		result = value[0]
	}
	return &result
}
