package v1

// ImportResult is the record surfaced to every import caller. An operation
// either fully succeeds or fully fails; there is no partial state.
type ImportResult struct {
	Success       bool   `json:"success"`
	BoardID       string `json:"boardId,omitempty"`
	Error         string `json:"error,omitempty"`
	BoardsCreated int    `json:"boardsCreated,omitempty"`
	BlocksCreated int    `json:"blocksCreated,omitempty"`
}

// Download is the payload handed to the download collaborator: serialized
// bytes plus the MIME type and sanitized filename for the browser trigger.
type Download struct {
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
	Data     []byte `json:"data"`
}

// ExportFormat selects the serialization an export endpoint produces.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatXML  ExportFormat = "xml"
	ExportFormatBPMN ExportFormat = "bpmn"
)

// MIME types per export format.
const (
	MIMEJSON = "application/json"
	MIMEXML  = "text/xml"
	MIMEBPMN = "application/xml"
)

// BPMNExportRequest carries the mapping configuration for a BPMN export.
type BPMNExportRequest struct {
	StatusPropertyID     string   `json:"statusPropertyId" binding:"required"`
	StartStates          []string `json:"startStates"`
	EndStates            []string `json:"endStates"`
	DependencyPropertyID string   `json:"dependencyPropertyId,omitempty"`
}
