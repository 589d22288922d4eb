package source

import "bytes"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeText drops a UTF-8 BOM and turns CRLF into LF. A lone CR is kept:
// it is a space to the tokenizer. The flags record what was changed.
func normalizeText(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}
