package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	// Registers decoders for non-UTF-8 charsets found in alert mails.
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// HTMLPart returns the first inline text/html part of a raw message, decoded
// to UTF-8. Attachments are skipped. An empty string with a nil error means
// the message simply carries no HTML body.
func HTMLPart(raw []byte) (string, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("mailbox: parse message: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("mailbox: read part: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ctype, _, err := header.ContentType()
		if err != nil || !strings.EqualFold(ctype, "text/html") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", fmt.Errorf("mailbox: decode html part: %w", err)
		}
		return string(body), nil
	}
}
