package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter renders command results. HumanFormatter writes lines of text,
// JSONFormatter one indented JSON document per call.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatPaste(w io.Writer, result *PasteResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter picks the formatter for the --json and --quiet flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter writes text. Quiet reduces successful results to the bare
// value a script would want; failures are always printed.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload prints one line per file. Quiet prints only stored paths.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(w, "failed %s: %v\n", r.LocalPath, r.Err)
		case f.Quiet:
			_, _ = fmt.Fprintln(w, r.Path)
		default:
			_, _ = fmt.Fprintf(w, "%s -> %s (%s, etag %s)\n", r.LocalPath, r.Path, formatSize(r.Size), r.ETag)
		}
	}
	return nil
}

// FormatDownload prints where the object went. Quiet prints nothing.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if f.Quiet {
		return nil
	}
	target := result.LocalPath
	if target == "-" {
		target = "stdout"
	}
	_, _ = fmt.Fprintf(w, "%s -> %s (%s, %s)\n", result.RemotePath, target, formatSize(result.Size), result.ContentType)
	return nil
}

// FormatDelete prints one line per path.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(w, "failed %s: %v\n", r.Path, r.Err)
		case !f.Quiet:
			_, _ = fmt.Fprintf(w, "deleted %s\n", r.Path)
		}
	}
	return nil
}

// FormatPaste prints the paste URL, in quiet mode too.
func (f *HumanFormatter) FormatPaste(w io.Writer, result *PasteResult) error {
	_, _ = fmt.Fprintln(w, result.URL)
	return nil
}

// FormatError prints err on one line.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList prints a table of profiles, marking the default with *.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	nameWidth, endpointWidth := len("NAME"), len("ENDPOINT")
	for i := range profiles {
		nameWidth = max(nameWidth, len(profiles[i].Name))
		endpointWidth = max(endpointWidth, len(profiles[i].Endpoint))
	}
	nameWidth = min(nameWidth, 20)
	endpointWidth = min(endpointWidth, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-12s  %-4s  %s\n", nameWidth, "NAME", endpointWidth, "ENDPOINT", "DIRECTORY", "SAFE", "TOKEN")
	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-12s  %-4s  %s\n",
			marker,
			nameWidth, truncate(p.Name, nameWidth),
			endpointWidth, truncate(p.Endpoint, endpointWidth),
			truncate(directoryLabel(p.Directory), 12),
			yesNo(p.Safe),
			maskSecret(p.Token, showSecrets),
		)
	}
	return nil
}

// FormatProfileShow prints one profile as labelled lines.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	name := profile.Name
	if isDefault {
		name += " (default)"
	}
	_, _ = fmt.Fprintf(w, "Profile:   %s\n", name)
	_, _ = fmt.Fprintf(w, "Endpoint:  %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Token:     %s\n", maskSecret(profile.Token, showSecrets))
	_, _ = fmt.Fprintf(w, "Directory: %s\n", directoryLabel(profile.Directory))
	_, _ = fmt.Fprintf(w, "Safe:      %s\n", yesNo(profile.Safe))
	return nil
}

// JSONFormatter writes JSON. Upload and delete results share the
// {"results":[...]} envelope, with failures carried in an "error" field.
type JSONFormatter struct{}

type jsonUpload struct {
	LocalPath string `json:"local_path"`
	Path      string `json:"path,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Directory string `json:"directory,omitempty"`
	ETag      string `json:"etag,omitempty"`
	Size      int64  `json:"size_bytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

type jsonDelete struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

type jsonResults[T any] struct {
	Results []T `json:"results"`
}

// FormatUpload writes every upload result.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	out := jsonResults[jsonUpload]{Results: make([]jsonUpload, len(results))}
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			out.Results[i] = jsonUpload{LocalPath: r.LocalPath, Error: r.Err.Error()}
			continue
		}
		out.Results[i] = jsonUpload{
			LocalPath: r.LocalPath,
			Path:      r.Path,
			Filename:  r.Filename,
			Directory: r.Directory,
			ETag:      r.ETag,
			Size:      r.Size,
		}
	}
	return writeJSON(w, out)
}

// FormatDownload writes the download result.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatDelete writes every delete result.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	out := jsonResults[jsonDelete]{Results: make([]jsonDelete, len(results))}
	for i := range results {
		out.Results[i] = jsonDelete{Path: results[i].Path, Deleted: results[i].Deleted}
		if results[i].Err != nil {
			out.Results[i].Error = results[i].Err.Error()
		}
	}
	return writeJSON(w, out)
}

// FormatPaste writes the paste result.
func (f *JSONFormatter) FormatPaste(w io.Writer, result *PasteResult) error {
	return writeJSON(w, result)
}

// FormatError writes {"error": "..."}.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return writeJSON(w, map[string]string{"error": err.Error()})
}

// jsonProfile is the JSON shape of a saved profile.
type jsonProfile struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	Token     string `json:"token"`
	Directory string `json:"directory"`
	Safe      bool   `json:"safe"`
	Default   bool   `json:"default"`
}

func newJSONProfile(p Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:      p.Name,
		Endpoint:  p.Endpoint,
		Token:     maskSecret(p.Token, showSecrets),
		Directory: p.Directory,
		Safe:      p.Safe,
		Default:   isDefault,
	}
}

// FormatProfileList writes {"profiles":[...]}.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	out := make([]jsonProfile, len(profiles))
	for i := range profiles {
		out[i] = newJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}
	return writeJSON(w, struct {
		Profiles []jsonProfile `json:"profiles"`
	}{Profiles: out})
}

// FormatProfileShow writes one profile object.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, newJSONProfile(profile, isDefault, showSecrets))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize renders n bytes with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	value, exp := float64(n)/unit, 0
	for value >= unit && exp < 2 {
		value /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", value, "KMG"[exp])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// maskSecret hides a token unless show is set. Tokens longer than eight
// characters keep their first and last four.
func maskSecret(secret string, show bool) string {
	switch {
	case show:
		return secret
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
}

// directoryLabel names the upload directory, or the root when it is empty.
func directoryLabel(dir string) string {
	if dir == "" {
		return "(root)"
	}
	return dir
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
