package runtime

import "unicode/utf8"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// MapPtr applies fn to *p, or returns nil when p is nil.
func MapPtr[T, R any](p *T, fn func(T) R) *R {
	if p == nil {
		return nil
	}
	r := fn(*p)
	return &r
}

// ValueOrNil returns *p, or an untyped nil when p is nil.
func ValueOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Coalesce returns *p, or def when p is nil.
func Coalesce[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// BoolInt returns 1 for true and 0 for false.
func BoolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// RuneString returns r as a one character string.
func RuneString(r rune) string { return string(r) }

// FirstRune returns the first character of s, or 0 for an empty string.
func FirstRune(s string) rune {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return 0
	}
	return r
}

// ByteInt returns b as an integer.
func ByteInt(b byte) int64 { return int64(b) }

// normalize converts values to the types bound to SQLite.
func normalize(v any) any {
	switch v := v.(type) {
	case bool:
		return BoolInt(v)
	case Blob:
		return v.Bytes()
	case *Blob:
		if v == nil {
			return nil
		}
		return v.Bytes()
	}
	return v
}
