/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	otellog "go.opentelemetry.io/otel/log"
)

const (
	defaultScope            = "devicemap"
	maxAttributeValueLength = 4096
)

// LogWriter turns zerolog JSON lines into OTLP log records. The "component"
// field selects the instrumentation scope.
type LogWriter struct {
	provider otellog.LoggerProvider

	mu      sync.Mutex
	loggers map[string]otellog.Logger
}

// NewLogWriter creates a LogWriter emitting through provider.
func NewLogWriter(provider otellog.LoggerProvider) *LogWriter {
	return &LogWriter{
		provider: provider,
		loggers:  make(map[string]otellog.Logger),
	}
}

// Write implements io.Writer. Lines that are not JSON objects are dropped; a
// log sink never fails the caller.
func (w *LogWriter) Write(p []byte) (int, error) {
	record, scope, ok := toRecord(p)
	if !ok {
		return len(p), nil
	}

	w.logger(scope).Emit(context.Background(), record)

	return len(p), nil
}

func (w *LogWriter) logger(scope string) otellog.Logger {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.loggers[scope]
	if !ok {
		l = w.provider.Logger(scope)
		w.loggers[scope] = l
	}

	return l
}

func toRecord(line []byte) (otellog.Record, string, bool) {
	var entry map[string]interface{}
	if err := json.Unmarshal(line, &entry); err != nil {
		return otellog.Record{}, "", false
	}

	var record otellog.Record

	if ts, ok := entry["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			record.SetTimestamp(parsed)
			delete(entry, "time")
		}
	}

	if level, ok := entry["level"].(string); ok {
		record.SetSeverity(severityOf(level))
		record.SetSeverityText(level)
		delete(entry, "level")
	}

	if msg, ok := entry["message"].(string); ok {
		record.SetBody(otellog.StringValue(msg))
		delete(entry, "message")
	}

	scope := defaultScope
	if component, ok := entry["component"].(string); ok && component != "" {
		scope = component
		delete(entry, "component")
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		record.AddAttributes(otellog.String(k, formatValue(entry[k])))
	}

	return record, scope, true
}

func formatValue(v interface{}) string {
	var s string

	switch value := v.(type) {
	case nil:
		s = "null"
	case string:
		s = value
	case bool, float64:
		s = fmt.Sprint(value)
	default:
		b, err := json.Marshal(value)
		if err != nil {
			s = fmt.Sprint(value)
		} else {
			s = string(b)
		}
	}

	return truncate(s, maxAttributeValueLength)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := s[:limit-3]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}

	return cut + "..."
}

func severityOf(level string) otellog.Severity {
	switch strings.ToLower(level) {
	case "trace":
		return otellog.SeverityTrace
	case "debug":
		return otellog.SeverityDebug
	case "info":
		return otellog.SeverityInfo
	case "warn", "warning":
		return otellog.SeverityWarn
	case "error":
		return otellog.SeverityError
	case "fatal", "panic":
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}
