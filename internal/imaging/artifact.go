package imaging

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// Meta carries per-request provenance recorded on the artifact.
type Meta struct {
	Prompt      string
	SourceImage string // set only for edit operations
}

// Artifact is the normalized result of one image-producing operation.
// It is constructed once, immediately after a successful upstream call,
// and never mutated or persisted afterwards.
type Artifact struct {
	Data        []byte
	MIMEType    string
	CaseID      string
	Annotations map[string]string
}

// Normalize turns a fetched base64 buffer and request metadata into a
// complete Artifact with a fresh case ID. It fails only on malformed
// payload bytes.
func Normalize(b64 string, meta Meta) (*Artifact, error) {
	format, err := DetectFormat(b64)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	annotations := map[string]string{"prompt": meta.Prompt}
	if meta.SourceImage != "" {
		annotations["source_image"] = meta.SourceImage
	}

	return &Artifact{
		Data:        data,
		MIMEType:    "image/" + string(format),
		CaseID:      uuid.NewString(),
		Annotations: annotations,
	}, nil
}
