//
//  Copyright © Stackport Inc. All rights reserved.
//

package decisionlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecisionLogOptions configures the behavior of decision log output.
type DecisionLogOptions struct {
	// PrettyPrint enables indented multi-line JSON output.
	// When false (default), output is compact single-line JSON.
	PrettyPrint bool
}

// IoWriterFactory creates [Stream] instances that write to an [io.Writer].
//
// Use [NewStdoutFactory] to create a factory for stdout, or [NewIoWriterFactory]
// for a custom writer.
type IoWriterFactory struct {
	writer  io.Writer
	options DecisionLogOptions
}

// IoWriterStream writes decision records as JSON to an [io.Writer].
//
// Each record is written as a single line of JSON followed by a newline.
// This format is suitable for log aggregation systems and command-line tools.
//
// IoWriterStream is safe for concurrent use; writes are atomic at the line level.
type IoWriterStream struct {
	writer  io.Writer
	options DecisionLogOptions
}

// NewStdoutFactory creates a [Factory] that writes decision records to stdout.
//
// This is the default factory used by the resolver if no decision log
// is explicitly configured. It's suitable for development and debugging,
// or for production environments where stdout is captured by a log aggregator.
//
// Example:
//
//	soe, _ := core.NewResolver(
//	    options.WithDecisionLog(decisionlog.NewStdoutFactory()),
//	)
func NewStdoutFactory() Factory {
	return NewIoWriterFactory(os.Stdout)
}

// NewIoWriterFactory creates a [Factory] that writes decision records to the
// specified [io.Writer].
//
// This is useful for writing to files, buffers, or other destinations:
//
//	file, _ := os.Create("decisions.log")
//	factory := decisionlog.NewIoWriterFactory(file)
//	soe, _ := core.NewResolver(options.WithDecisionLog(factory))
func NewIoWriterFactory(w io.Writer) Factory {
	return NewIoWriterFactoryWithOptions(w, DecisionLogOptions{})
}

// NewIoWriterFactoryWithOptions creates a [Factory] that writes decision records
// to the specified [io.Writer] with the given options.
//
// Use this when you need to customize output formatting:
//
//	factory := decisionlog.NewIoWriterFactoryWithOptions(os.Stdout, decisionlog.DecisionLogOptions{
//	    PrettyPrint: true,
//	})
//	soe, _ := core.NewResolver(options.WithDecisionLog(factory))
func NewIoWriterFactoryWithOptions(w io.Writer, opts DecisionLogOptions) Factory {
	return &IoWriterFactory{
		writer:  w,
		options: opts,
	}
}

// NewStream creates a new [IoWriterStream] that writes to the configured writer.
func (f *IoWriterFactory) NewStream() (Stream, error) {
	return newStream(f.writer, f.options), nil
}

func newStream(w io.Writer, opts DecisionLogOptions) Stream {
	return &IoWriterStream{
		writer:  w,
		options: opts,
	}
}

// Send marshals the decision record to JSON and writes it to the configured writer.
//
// The record is written as JSON followed by a newline. The input field, if present,
// is decoded from its JSON string representation into a proper JSON object for
// improved readability. Output format is controlled by DecisionLogOptions:
// - PrettyPrint=false (default): compact single-line JSON
// - PrettyPrint=true: indented multi-line JSON
//
// Write errors are silently ignored as stdout writes rarely fail, and the
// resolver should not fail decisions due to logging issues.
func (s *IoWriterStream) Send(record *Record) error {
	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Unmarshal to generic map so we can manipulate the input field
	var data map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		// Fall back to original output if we can't parse
		_, _ = fmt.Fprintln(s.writer, string(jsonBytes))
		return nil
	}

	// Expand input field from JSON string to object if present
	if inputStr, ok := data["input"].(string); ok {
		var inputData interface{}
		if err := json.Unmarshal([]byte(inputStr), &inputData); err == nil {
			data["input"] = inputData
		}
	}

	// Re-encode with appropriate formatting
	var output []byte
	if s.options.PrettyPrint {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		// Fall back to original output if re-encoding fails
		_, _ = fmt.Fprintln(s.writer, string(jsonBytes))
		return nil
	}

	_, _ = fmt.Fprintln(s.writer, string(output))
	return nil
}

// Close is a no-op for IoWriterStream.
//
// The underlying writer is not closed by this method; the caller is responsible
// for closing the writer if needed (except for stdout, which should not be closed).
func (s *IoWriterStream) Close() {}
