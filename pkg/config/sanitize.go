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

package config

import (
	"encoding/json"
	"reflect"
)

const redacted = "[redacted]"

//nolint:gochecknoglobals // reflect type lookup
var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// SanitizeForDisplay renders cfg as JSON with every field tagged
// `sensitive:"true"` replaced by a placeholder, for logs and the CLI.
func SanitizeForDisplay(cfg interface{}) ([]byte, error) {
	return json.MarshalIndent(sanitizeValue(reflect.ValueOf(cfg)), "", "  ")
}

func sanitizeValue(v reflect.Value) interface{} {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct || v.Type().Implements(jsonMarshalerType) {
		return v.Interface()
	}

	t := v.Type()
	out := make(map[string]interface{}, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := jsonFieldName(sf)
		if name == "" {
			continue
		}

		if sf.Tag.Get("sensitive") == "true" {
			if !v.Field(i).IsZero() {
				out[name] = redacted
			}

			continue
		}

		out[name] = sanitizeValue(v.Field(i))
	}

	return out
}
