package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// TextExtractor is the external text-extraction collaborator boundary:
// PDF path in, plain text out.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// ConverterExtractor extracts text by cropping headers/footers with pdfcpu
// and posting the result to a docling-style converter service.
type ConverterExtractor struct {
	converterURL string
	cropTop      float64
	cropBottom   float64
	client       *http.Client
}

type converterResponse struct {
	Document struct {
		MdContent string `json:"md_content"`
	} `json:"document"`
}

func NewConverterExtractor(converterURL string, cropTop, cropBottom float64) *ConverterExtractor {
	return &ConverterExtractor{
		converterURL: converterURL,
		cropTop:      cropTop,
		cropBottom:   cropBottom,
		client:       &http.Client{Timeout: 5 * time.Minute},
	}
}

func (e *ConverterExtractor) ExtractText(ctx context.Context, filePath string) (string, error) {
	path := filePath
	if e.cropTop > 0 || e.cropBottom > 0 {
		// Crop into a scratch copy; the original bytes must stay intact
		// because the content hash is computed over them.
		tmp, err := e.cropToTemp(filePath)
		if err != nil {
			return "", err
		}
		defer os.Remove(tmp)
		path = tmp
	}
	return e.convert(ctx, path)
}

func (e *ConverterExtractor) cropToTemp(filePath string) (string, error) {
	tmp, err := os.CreateTemp("", "loader-crop-*.pdf")
	if err != nil {
		return "", err
	}
	tmp.Close()

	conf := api.LoadConfiguration()
	cropStr := fmt.Sprintf("%.2f 0 %.2f 0", e.cropTop, e.cropBottom)
	box, err := pdfmodel.ParseBox(cropStr, pdftypes.POINTS)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to parse crop box: %w", err)
	}

	if err := api.CropFile(filePath, tmp.Name(), []string{"1-"}, box, conf); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to crop PDF: %w", err)
	}
	return tmp.Name(), nil
}

func (e *ConverterExtractor) convert(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("files", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.converterURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("converter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("converter error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var d converterResponse
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return "", fmt.Errorf("decode converter response: %w", err)
	}
	return d.Document.MdContent, nil
}
