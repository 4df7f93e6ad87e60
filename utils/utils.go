package utils

import (
	"encoding/json"
	"strconv"

	log "github.com/sirupsen/logrus"
)

func IntFromString(s string, defaultValue int) int {
	atoi, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return atoi
}

func ToJson(value any) []byte {
	jsonResp, err := json.Marshal(value)
	if err != nil {
		log.Errorf("Error happened in JSON marshal. Err: %s", err)
	}
	return jsonResp
}
