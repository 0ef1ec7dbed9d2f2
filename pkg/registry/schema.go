// pkg/registry/schema.go
package registry

type ActionRegistry struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Actions     []Action `json:"actions"`
}

type Action struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	TaskType    string   `json:"taskType"`
	Method      string   `json:"method,omitempty"` // empty for actions with no route
	Path        string   `json:"path,omitempty"`
	ErrorCodes  []string `json:"errorCodes"`
	Tags        []string `json:"tags"`
}
