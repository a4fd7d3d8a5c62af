package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/passbi/transit-catalogue/internal/snapshot"
)

// runProcessRequests reads a request document from in (stat_requests and
// serialization_settings only — base_requests/render_settings/
// routing_settings are ignored, since they were already baked into the
// snapshot by make_base), decodes the snapshot, answers every stat
// request, and writes the JSON answer array to out.
func runProcessRequests(in io.Reader, out io.Writer) error {
	doc, err := decodeRequestDocument(in)
	if err != nil {
		return err
	}
	if doc.SerializationSettings == nil || doc.SerializationSettings.File == "" {
		return fmt.Errorf("serialization_settings.file is required")
	}

	f, err := os.Open(doc.SerializationSettings.File)
	if err != nil {
		return fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	decoded, err := snapshot.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	h := handler.NewFromRenderedMap(decoded.Catalogue, renderFromSnapshot(decoded), decoded.Router)

	answers := make([]interface{}, 0, len(doc.StatRequests))
	for _, req := range doc.StatRequests {
		resp, err := h.Dispatch(req)
		if err != nil {
			return fmt.Errorf("dispatching request %d: %w", req.ID, err)
		}
		answers = append(answers, resp)
	}

	enc := json.NewEncoder(out)
	return enc.Encode(answers)
}
