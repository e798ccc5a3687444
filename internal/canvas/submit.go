package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/slate-tui/slate/internal/domain"
)

// Submit performs one submission attempt of the request's kind. Any failing
// step aborts the whole attempt; a failed file upload must be restarted from
// the slot request.
func (c *Client) Submit(ctx context.Context, req domain.SubmissionRequest) (domain.Submission, error) {
	switch req.Kind {
	case domain.SubmitText:
		return c.SubmitText(ctx, req.CourseID, req.AssignmentID, req.Content)
	case domain.SubmitURL:
		return c.SubmitURL(ctx, req.CourseID, req.AssignmentID, req.Content)
	case domain.SubmitFile:
		return c.SubmitFilePath(ctx, req.CourseID, req.AssignmentID, req.Content)
	}
	return domain.Submission{}, fmt.Errorf("unknown submission kind %d", req.Kind)
}

// SubmitText submits raw text as an online text entry. The text is wrapped
// in <pre> after escaping so whitespace and newlines survive Canvas's HTML
// rendering.
func (c *Client) SubmitText(ctx context.Context, courseID, assignmentID int64, text string) (domain.Submission, error) {
	body := "<pre>" + escapeHTML(text) + "</pre>"
	return c.postSubmission(ctx, courseID, assignmentID, map[string]any{
		"submission_type": "online_text_entry",
		"body":            body,
	})
}

// SubmitURL submits a URL string as an online URL submission, verbatim.
func (c *Client) SubmitURL(ctx context.Context, courseID, assignmentID int64, rawURL string) (domain.Submission, error) {
	return c.postSubmission(ctx, courseID, assignmentID, map[string]any{
		"submission_type": "online_url",
		"url":             rawURL,
	})
}

// SubmitFilePath submits a local file as an online upload. The upload runs
// the three-step protocol: request a slot, push the bytes to the slot URL,
// then confirm and reference the resulting file id.
func (c *Client) SubmitFilePath(ctx context.Context, courseID, assignmentID int64, path string) (domain.Submission, error) {
	uploaded, err := c.UploadSubmissionFile(ctx, courseID, assignmentID, path)
	if err != nil {
		return domain.Submission{}, err
	}
	return c.postSubmission(ctx, courseID, assignmentID, map[string]any{
		"submission_type": "online_upload",
		"file_ids":        []int64{uploaded.ID},
	})
}

func (c *Client) postSubmission(ctx context.Context, courseID, assignmentID int64, submission map[string]any) (domain.Submission, error) {
	path := fmt.Sprintf("/courses/%d/assignments/%d/submissions", courseID, assignmentID)
	return postJSON[domain.Submission](ctx, c, c.apiURL(path), map[string]any{
		"submission": submission,
	})
}

// UploadSubmissionFile runs the out-of-band upload protocol for one file and
// returns the confirmed file object.
func (c *Client) UploadSubmissionFile(ctx context.Context, courseID, assignmentID int64, path string) (domain.UploadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("reading file: %w", err)
	}

	slotPath := fmt.Sprintf("/courses/%d/assignments/%d/submissions/self/files", courseID, assignmentID)
	slot, err := postJSON[domain.UploadSlot](ctx, c, c.apiURL(slotPath), map[string]any{
		"name":         filepath.Base(path),
		"size":         info.Size(),
		"content_type": contentTypeForFile(path),
	})
	if err != nil {
		return domain.UploadedFile{}, err
	}

	return c.uploadToSlot(ctx, slot, path)
}

// uploadToSlot pushes file bytes to the slot's upload URL as a multipart
// form. The slot URL is typically a third-party storage service, so the
// request carries no bearer token and redirects are not followed: a redirect
// Location is the API's confirmation endpoint and must be fetched with
// credentials.
func (c *Client) uploadToSlot(ctx context.Context, slot domain.UploadSlot, path string) (domain.UploadedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("reading file: %w", err)
	}
	defer file.Close()

	var buf strings.Builder
	writer := multipart.NewWriter(&buf)
	for key, value := range slot.UploadParams {
		if err := writer.WriteField(key, value); err != nil {
			return domain.UploadedFile{}, fmt.Errorf("building upload form: %w", err)
		}
	}
	fileParam := slot.FileParam
	if fileParam == "" {
		fileParam = "file"
	}
	part, err := writer.CreateFormFile(fileParam, filepath.Base(path))
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.UploadedFile{}, fmt.Errorf("reading file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.UploadedFile{}, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, slot.UploadURL, strings.NewReader(buf.String()))
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("uploading submission file", "url", slot.UploadURL, "file", path)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return domain.UploadedFile{}, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		location := resp.Header.Get("Location")
		if location == "" {
			return domain.UploadedFile{}, &domain.UploadError{Status: resp.StatusCode, Body: "redirect without Location"}
		}
		return c.confirmUpload(ctx, location)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var uploaded domain.UploadedFile
		if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
			return domain.UploadedFile{}, fmt.Errorf("failed to parse upload response: %w", err)
		}
		return uploaded, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("upload rejected", "status", resp.StatusCode, "body", string(body))
		return domain.UploadedFile{}, &domain.UploadError{Status: resp.StatusCode, Body: string(body)}
	}
}

// confirmUpload follows the storage redirect back to the API, which requires
// the original bearer credential, and yields the final file object.
func (c *Client) confirmUpload(ctx context.Context, location string) (domain.UploadedFile, error) {
	resp, err := c.do(ctx, http.MethodGet, location, nil, "")
	if err != nil {
		return domain.UploadedFile{}, err
	}
	defer resp.Body.Close()

	var uploaded domain.UploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to parse upload confirmation: %w", err)
	}
	return uploaded, nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
