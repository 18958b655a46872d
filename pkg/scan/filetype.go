// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scan

import (
	"path/filepath"
	"strings"
)

// FileType is the coarse category derived from a file's extension.
type FileType string

const (
	TypeDocument FileType = "document"
	TypeImage    FileType = "image"
	TypeVideo    FileType = "video"
	TypeAudio    FileType = "audio"
	TypeArchive  FileType = "archive"
	TypeCode     FileType = "code"
	TypeOther    FileType = "other"
)

var extensionTypes = map[string]FileType{}

func init() {
	register := func(t FileType, exts ...string) {
		for _, ext := range exts {
			extensionTypes[ext] = t
		}
	}
	register(TypeDocument, "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "rtf", "odt", "ods", "odp")
	register(TypeImage, "jpg", "jpeg", "png", "gif", "webp", "svg", "bmp", "ico", "tiff", "heic")
	register(TypeVideo, "mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v")
	register(TypeAudio, "mp3", "flac", "wav", "aac", "ogg", "wma", "m4a")
	register(TypeArchive, "zip", "rar", "7z", "tar", "gz", "bz2", "xz")
	register(TypeCode, "js", "ts", "jsx", "tsx", "py", "rs", "go", "java", "c", "cpp", "h", "hpp", "cs",
		"rb", "php", "swift", "kt", "scala", "html", "css", "scss", "json", "yaml", "yml", "xml", "md", "sql")
}

// TypeFromExtension classifies an extension given with or without its dot.
func TypeFromExtension(ext string) FileType {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return TypeOther
}

// extension returns the name's extension without the dot, or "" when there is none.
// Dotfiles such as ".bashrc" have no extension.
func extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name || ext == "" {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
