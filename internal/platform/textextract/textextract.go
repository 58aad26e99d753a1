// Package textextract implements the C1 Text Extractor: converting a PDF
// path or a fetched URL into plain text. Both operations are pure
// input/output conversions — no retries happen at this layer, callers
// decide whether to retry.
package textextract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ledongthuc/pdf"
)

const (
	maxFetchBytes  = 2 * 1024 * 1024 // 2 MiB
	fetchTimeout   = 15 * time.Second
	minHTMLContent = 100
)

// ExtractFromPdf reads path and returns its plain text, or ErrPdfInvalid if
// the file is absent, zero-length, password-protected, or scanned without
// OCR (i.e. yields no text after trimming).
func ExtractFromPdf(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPdfInvalid, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPdfInvalid, err)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPdfInvalid, err)
	}

	text := strings.TrimSpace(string(content))
	if len(text) < 1 {
		return "", fmt.Errorf("%w: no extractable text", ErrPdfInvalid)
	}

	return text, nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// FetchAndExtractHTML fetches url with a headless browser (so script/style
// content never reaches the text layer — only rendered DOM text is read),
// under a bounded size and a hard navigation timeout, and returns collapsed
// whitespace plain text.
func FetchAndExtractHTML(ctx context.Context, url string) (string, error) {
	if err := precheck(ctx, url); err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	browser := rod.New().Context(timeoutCtx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	body, err := page.Element("body")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	rawText, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if len(rawText) > maxFetchBytes {
		return "", fmt.Errorf("%w: content exceeds %d bytes", ErrFetchFailed, maxFetchBytes)
	}

	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(rawText, " "))
	if len(text) < minHTMLContent {
		return "", fmt.Errorf("%w: extracted %d chars, need >= %d", ErrInsufficientContent, len(text), minHTMLContent)
	}

	return text, nil
}

// precheck performs a plain HTTP GET of url (status and body-size checks
// only) so that obviously dead or oversized endpoints fail fast with a clear
// FetchFailed before paying for browser startup.
func precheck(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxFetchBytes+1)
	n, err := io.Copy(io.Discard, limited)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if n > maxFetchBytes {
		return fmt.Errorf("%w: content exceeds %d bytes", ErrFetchFailed, maxFetchBytes)
	}

	return nil
}
