package values

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/TomasBahnik/kube-helpers/pkg/artifact"
	"github.com/TomasBahnik/kube-helpers/pkg/defaults"
	"github.com/TomasBahnik/kube-helpers/pkg/document"
	"github.com/TomasBahnik/kube-helpers/pkg/header"
)

// SaveValues writes the built document as values.yaml and values.json under
// dir. The header renders as a YAML comment block above the values.yaml
// content; the JSON artifact stays comment-free. The partially filled result
// is returned alongside the error so callers can report what was written.
func SaveValues(ctx context.Context, doc *document.Document, dir string, hdr *header.Header) (*artifact.Result, error) {
	result := artifact.NewResult(artifact.TypeValues)
	err := writeDocumentPair(ctx, result, doc, dir, defaults.ValuesYAML, defaults.ValuesJSON, hdr)
	if err != nil {
		return result, err
	}
	result.MarkSuccess()
	slog.Info("values artifacts written", "dir", dir, "files", len(result.Files))
	return result, nil
}

// SaveExport writes the exported profile as <profile>_ini_sizing.yaml and
// <profile>_ini_sizing.json under dir.
func SaveExport(ctx context.Context, doc *document.Document, dir, profile string) (*artifact.Result, error) {
	result := artifact.NewResult(artifact.TypeSizingExport)
	stem := profile + defaults.IniSizingSuffix
	err := writeDocumentPair(ctx, result, doc, dir, stem+".yaml", stem+".json", nil)
	if err != nil {
		return result, err
	}
	result.MarkSuccess()
	slog.Info("sizing export written", "dir", dir, "profile", profile, "files", len(result.Files))
	return result, nil
}

// SaveAppTemplates writes one template pair per component under
// dir/templates/services/<component>/sizing, named after the last segment
// of the component path (termSuggestions/api becomes api.yaml, api.json).
func SaveAppTemplates(ctx context.Context, templates []ComponentTemplate, dir string) (*artifact.Result, error) {
	result := artifact.NewResult(artifact.TypeAppTemplates)
	for _, t := range templates {
		templateDir := filepath.Join(dir, "templates", "services", filepath.FromSlash(t.Component), "sizing")
		segments := document.SplitPath(t.Component)
		last := segments[len(segments)-1]

		slog.Info("saving app template", "component", t.Component)
		err := writeDocumentPair(ctx, result, t.Doc, templateDir, last+".yaml", last+".json", nil)
		if err != nil {
			return result, err
		}
	}
	result.MarkSuccess()
	slog.Info("app templates written", "dir", dir, "components", len(templates), "files", len(result.Files))
	return result, nil
}

// SaveScaled writes the scaled resources document as a single YAML artifact
// named after the profile and the scale factors.
func SaveScaled(ctx context.Context, doc *document.Document, dir, name string) (*artifact.Result, error) {
	result := artifact.NewResult(artifact.TypeScaledResources)
	if err := ctx.Err(); err != nil {
		result.AddError(err)
		return result, err
	}
	if err := artifact.EnsureDir(dir); err != nil {
		result.AddError(err)
		return result, err
	}

	content, err := doc.YAML()
	if err != nil {
		result.AddError(err)
		return result, err
	}
	writer := artifact.NewFileWriter(result)
	if err := writer.WriteFile(filepath.Join(dir, name), content, defaults.FileMode); err != nil {
		result.AddError(err)
		return result, err
	}
	result.MarkSuccess()
	slog.Info("scaled resources written", "dir", dir, "name", name)
	return result, nil
}

// writeDocumentPair writes one document as a YAML and a JSON artifact into
// dir, recording both on result. A non-nil header is prepended to the YAML
// form as comments.
func writeDocumentPair(ctx context.Context, result *artifact.Result, doc *document.Document, dir, yamlName, jsonName string, hdr *header.Header) error {
	if err := ctx.Err(); err != nil {
		result.AddError(err)
		return err
	}
	if err := artifact.EnsureDir(dir); err != nil {
		result.AddError(err)
		return err
	}

	yamlContent, err := doc.YAML()
	if err != nil {
		result.AddError(err)
		return err
	}
	if hdr != nil {
		var b strings.Builder
		b.WriteString(hdr.CommentBlock())
		b.Write(yamlContent)
		yamlContent = []byte(b.String())
	}

	jsonContent, err := doc.JSON(2)
	if err != nil {
		result.AddError(err)
		return err
	}

	writer := artifact.NewFileWriter(result)
	if err := writer.WriteFile(filepath.Join(dir, yamlName), yamlContent, defaults.FileMode); err != nil {
		result.AddError(err)
		return err
	}
	if err := writer.WriteFile(filepath.Join(dir, jsonName), jsonContent, defaults.FileMode); err != nil {
		result.AddError(err)
		return err
	}
	return nil
}

// NewHeader builds the provenance header for a values document from the
// profiles that produced it.
func NewHeader(sizingProfile, modulesProfile, toolVersion string) *header.Header {
	hdr := header.New()
	hdr.Init(header.KindValues, toolVersion)
	if sizingProfile != "" {
		hdr.SetMeta("sizing-profile", sizingProfile)
	}
	if modulesProfile != "" {
		hdr.SetMeta("modules-profile", modulesProfile)
	}
	return hdr
}
