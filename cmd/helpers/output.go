package helpers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zinc-sig/fluttertools/internal/upload"
)

// PrintContextInfo prints the merged context in verbose mode
func PrintContextInfo(w io.Writer, context any) {
	if context == nil {
		return
	}

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Context Configuration")
	fmt.Fprintln(w, "========================================")

	jsonBytes, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "  %v\n", context)
	} else {
		fmt.Fprintf(w, "%s\n", string(jsonBytes))
	}

	fmt.Fprintln(w, "----------------------------------------")
}

// PrintUploadInfo prints upload configuration in verbose mode
func PrintUploadInfo(w io.Writer, provider upload.Provider, config map[string]any, logPath string) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Configuration")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Provider:       %s\n", provider.Name())

	// Print relevant config based on provider type
	if provider.Name() == "minio" {
		if endpoint, ok := config["endpoint"]; ok {
			fmt.Fprintf(w, "Endpoint:       %v\n", endpoint)
		}
		if bucket, ok := config["bucket"]; ok {
			fmt.Fprintf(w, "Bucket:         %v\n", bucket)
		}
		if prefix, ok := config["prefix"]; ok && prefix != "" {
			fmt.Fprintf(w, "Prefix:         %v\n", prefix)
		}
	}
	if compress, ok := config["compress"]; ok {
		fmt.Fprintf(w, "Compress:       %v\n", compress)
	}

	fmt.Fprintf(w, "Log Path:       %s\n", logPath)
	fmt.Fprintln(w, "----------------------------------------")
}
