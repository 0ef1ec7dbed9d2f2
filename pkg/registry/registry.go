// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default is the catalog of actions this build ships.
func Default() *ActionRegistry {
	return &ActionRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-10-18",
		Actions: []Action{
			{
				ID:          "submit-claim",
				DisplayName: "Alta de siniestro",
				Description: "Validate the claim form and create the claim in the claims API",
				Category:    "claims",
				TaskType:    "submit-claim",
				Method:      "POST",
				Path:        "/siniestros",
				ErrorCodes:  []string{"VALIDATION_FAILED", "SERVER_ERROR", "NETWORK_ERROR"},
				Tags:        []string{"form", "claims-api"},
			},
			{
				ID:          "lookup-claim",
				DisplayName: "Consulta de siniestro",
				Description: "Find a claim by DNI or claim ID",
				Category:    "claims",
				TaskType:    "lookup-claim",
				Method:      "GET",
				Path:        "/consultar",
				ErrorCodes:  []string{"CLAIM_NOT_FOUND", "NETWORK_ERROR"},
				Tags:        []string{"claims-api"},
			},
			{
				ID:          "estimate-settlement",
				DisplayName: "Estimación de liquidación",
				Description: "Split a repair bill between insurer and customer without saving anything",
				Category:    "claims",
				TaskType:    "estimate-settlement",
				Method:      "POST",
				Path:        "/estimar",
				ErrorCodes:  []string{"VALIDATION_FAILED"},
				Tags:        []string{"form", "local"},
			},
			{
				ID:          "send-receipt",
				DisplayName: "Acuse de recibo",
				Description: "Email and SNS receipt after a claim is saved",
				Category:    "notification",
				TaskType:    "send-receipt",
				ErrorCodes:  []string{"NOTIFICATION_SEND_FAILED"},
				Tags:        []string{"aws", "ses", "sns"},
			},
		},
	}
}

func LoadRegistry(path string) (*ActionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActionRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &reg, nil
}

// Find looks an action up by task type.
func (r *ActionRegistry) Find(taskType string) (Action, bool) {
	for _, a := range r.Actions {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Action{}, false
}
