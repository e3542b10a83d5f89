// Package sniff classifies a file's true binary format from its leading
// bytes, independent of the file's name or extension.
package sniff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPrefix bounds how many leading bytes a caller needs to supply.
// Classification never requires more than this, whatever the file size.
const MaxPrefix = 64 * 1024

// Kind identifies a detected binary format.
type Kind string

const (
	KindPNG     Kind = "png"
	KindJPEG    Kind = "jpeg"
	KindGIF     Kind = "gif"
	KindWEBP    Kind = "webp"
	KindSVG     Kind = "svg"
	KindISOBMFF Kind = "isobmff"
	KindUnknown Kind = "unknown"
)

// Result is the outcome of sniffing a byte prefix. Brands is populated only
// for KindISOBMFF and holds the de-duplicated 4-character brand tags from
// the ftyp box.
type Result struct {
	Kind   Kind
	Brands map[string]struct{}
}

// HasBrand reports whether an ISOBMFF result carries the given brand.
func (r Result) HasBrand(brand string) bool {
	_, ok := r.Brands[brand]
	return ok
}

// BrandList returns the brand set sorted, for stable diagnostics.
func (r Result) BrandList() []string {
	brands := make([]string, 0, len(r.Brands))
	for b := range r.Brands {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gif87a    = []byte("GIF87a")
	gif89a    = []byte("GIF89a")
	riffTag   = []byte("RIFF")
	webpTag   = []byte("WEBP")
	ftypTag   = []byte("ftyp")
)

// ftypScanCap caps box scanning when the declared box size is implausible.
// The fallback is a deliberate heuristic, not part of the ISO spec; brand
// detection depends on it behaving exactly this way.
const ftypScanCap = 256

// Detect classifies a byte prefix. It is total and deterministic: every
// input maps to exactly one Result. Rules are checked in priority order.
func Detect(prefix []byte) Result {
	switch {
	case bytes.HasPrefix(prefix, pngMagic):
		return Result{Kind: KindPNG}
	case bytes.HasPrefix(prefix, jpegMagic):
		return Result{Kind: KindJPEG}
	case bytes.HasPrefix(prefix, gif87a), bytes.HasPrefix(prefix, gif89a):
		return Result{Kind: KindGIF}
	case len(prefix) >= 12 && bytes.Equal(prefix[0:4], riffTag) && bytes.Equal(prefix[8:12], webpTag):
		return Result{Kind: KindWEBP}
	case len(prefix) >= 8 && bytes.Equal(prefix[4:8], ftypTag):
		return Result{Kind: KindISOBMFF, Brands: parseBrands(prefix)}
	case looksLikeSVG(prefix):
		return Result{Kind: KindSVG}
	default:
		return Result{Kind: KindUnknown}
	}
}

// parseBrands reads the ISO base-media ftyp box: major brand at offset 8,
// compatible brands from offset 16 in 4-byte strides up to the box length.
// A declared size outside [16, len(prefix)] is implausible and scanning is
// capped at ftypScanCap bytes instead.
func parseBrands(prefix []byte) map[string]struct{} {
	boxLen := int(binary.BigEndian.Uint32(prefix[0:4]))
	if boxLen < 16 || boxLen > len(prefix) {
		boxLen = ftypScanCap
		if boxLen > len(prefix) {
			boxLen = len(prefix)
		}
	}

	brands := make(map[string]struct{})
	if len(prefix) >= 12 {
		brands[string(prefix[8:12])] = struct{}{}
	}
	for off := 16; off+4 <= boxLen; off += 4 {
		brands[string(prefix[off:off+4])] = struct{}{}
	}
	return brands
}

// looksLikeSVG reports whether the prefix decodes as UTF-8 text containing a
// case-insensitive <svg token followed by whitespace or '>'.
func looksLikeSVG(prefix []byte) bool {
	if !utf8.Valid(prefix) {
		return false
	}
	text := strings.ToLower(string(prefix))
	for start := 0; ; {
		i := strings.Index(text[start:], "<svg")
		if i < 0 {
			return false
		}
		rest := text[start+i+4:]
		if rest == "" {
			return false
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if r == '>' || unicode.IsSpace(r) {
			return true
		}
		start += i + 4
	}
}

// KindForExtension maps a lowercased extension (with dot) to the format the
// extension claims. AVIF is absent here: it is ISOBMFF-family and cannot be
// told apart by magic bytes, so MatchExtension brand-checks it instead.
func KindForExtension(ext string) Kind {
	switch strings.ToLower(ext) {
	case ".png":
		return KindPNG
	case ".jpg", ".jpeg":
		return KindJPEG
	case ".gif":
		return KindGIF
	case ".webp":
		return KindWEBP
	case ".svg":
		return KindSVG
	default:
		return KindUnknown
	}
}

// MatchExtension verifies that the sniffed result agrees with the format the
// extension claims. A mismatch names both the expected and detected kind so
// a renamed file cannot be served under a false content type.
func MatchExtension(ext string, res Result) error {
	if strings.EqualFold(ext, ".avif") {
		if res.Kind == KindISOBMFF && (res.HasBrand("avif") || res.HasBrand("avis")) {
			return nil
		}
		detected := string(res.Kind)
		if res.Kind == KindISOBMFF {
			detected = fmt.Sprintf("isobmff[%s]", strings.Join(res.BrandList(), ","))
		}
		return fmt.Errorf("content mismatch: expected avif, detected %s", detected)
	}

	expected := KindForExtension(ext)
	if res.Kind != expected {
		return fmt.Errorf("content mismatch: expected %s, detected %s", expected, res.Kind)
	}
	return nil
}
