package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/crmarques/contentdesk/document"
	"github.com/crmarques/contentdesk/server"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeSaveBody builds the multipart form the content API accepts: a
// `values` field holding `[document]`, the record `id` on replace, and one
// file part per attachment.
func encodeSaveBody(request server.SaveRequest, includeID bool) ([]byte, string, error) {
	normalized, err := document.Normalize(request.Document)
	if err != nil {
		return nil, "", err
	}
	values, err := json.Marshal([]any{normalized})
	if err != nil {
		return nil, "", validationError("failed to encode document values", err)
	}

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	if err := writer.WriteField("values", string(values)); err != nil {
		return nil, "", internalError("failed to write values field", err)
	}
	if includeID {
		if err := writer.WriteField("id", request.ID); err != nil {
			return nil, "", internalError("failed to write id field", err)
		}
	}
	for _, attachment := range request.Attachments {
		if err := writeAttachmentPart(writer, attachment); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", internalError("failed to finish multipart body", err)
	}
	return buffer.Bytes(), writer.FormDataContentType(), nil
}

func writeAttachmentPart(writer *multipart.Writer, attachment server.Attachment) error {
	field := strings.TrimSpace(attachment.Field)
	if field == "" {
		return validationError("attachment field name is required", nil)
	}

	file, err := os.Open(attachment.Path)
	if err != nil {
		return validationError(fmt.Sprintf("attachment %q could not be opened", field), err)
	}
	defer file.Close()

	fileName := attachment.FileName
	if strings.TrimSpace(fileName) == "" {
		fileName = filepath.Base(attachment.Path)
	}
	contentType := attachment.ContentType
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set(
		"Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(fileName)),
	)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return internalError(fmt.Sprintf("failed to create attachment part %q", field), err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return validationError(fmt.Sprintf("attachment %q could not be read", field), err)
	}
	return nil
}

func encodeDeleteBody(id string) ([]byte, error) {
	encoded, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return nil, internalError("failed to encode delete body", err)
	}
	return encoded, nil
}
