package relationship

import (
	"strings"
)

// DefaultRootType is the universal root every class implicitly extends.
const DefaultRootType = "java.lang.Object"

var primitiveTypes = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// defaultCommonTypes are library types too ubiquitous to say anything about
// a design: core value types, collections and I/O.
var defaultCommonTypes = []string{
	// core language
	"java.lang.Object",
	"java.lang.String",
	"java.lang.CharSequence",
	"java.lang.StringBuilder",
	"java.lang.Number",
	"java.lang.Integer",
	"java.lang.Long",
	"java.lang.Short",
	"java.lang.Byte",
	"java.lang.Double",
	"java.lang.Float",
	"java.lang.Boolean",
	"java.lang.Character",
	"java.lang.Void",
	"java.lang.Class",
	"java.lang.Enum",
	"java.lang.Throwable",
	"java.lang.Exception",
	"java.lang.RuntimeException",
	"java.math.BigDecimal",
	"java.math.BigInteger",
	"java.util.UUID",
	"java.util.Date",
	"java.time.Instant",
	"java.time.LocalDate",
	"java.time.LocalDateTime",
	"java.time.Duration",

	// collections
	"java.util.Collection",
	"java.util.List",
	"java.util.ArrayList",
	"java.util.LinkedList",
	"java.util.Set",
	"java.util.HashSet",
	"java.util.LinkedHashSet",
	"java.util.TreeSet",
	"java.util.Map",
	"java.util.HashMap",
	"java.util.LinkedHashMap",
	"java.util.TreeMap",
	"java.util.Queue",
	"java.util.Deque",
	"java.util.ArrayDeque",
	"java.util.Optional",
	"java.util.Iterator",
	"java.util.concurrent.ConcurrentHashMap",
	"java.util.concurrent.ConcurrentMap",

	// I/O
	"java.io.InputStream",
	"java.io.OutputStream",
	"java.io.Reader",
	"java.io.Writer",
	"java.io.File",
	"java.io.Serializable",
	"java.nio.file.Path",
	"java.nio.ByteBuffer",
}

// CommonTypes is the exclusion list used when classifying field and
// signature types. It is data, not algorithm: each ecosystem brings its own.
type CommonTypes struct {
	names map[string]bool
}

// NewCommonTypes builds an exclusion list from names.
func NewCommonTypes(names ...string) CommonTypes {
	c := CommonTypes{names: make(map[string]bool, len(names))}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			c.names[n] = true
		}
	}
	return c
}

// DefaultCommonTypes returns the built-in exclusion list plus extra.
func DefaultCommonTypes(extra ...string) CommonTypes {
	all := make([]string, 0, len(defaultCommonTypes)+len(extra))
	all = append(all, defaultCommonTypes...)
	all = append(all, extra...)
	return NewCommonTypes(all...)
}

// Len returns the number of excluded names.
func (c CommonTypes) Len() int {
	return len(c.names)
}

// IsCommon reports whether name (already normalized) is on the list.
// Unqualified names also match their java.lang counterpart.
func (c CommonTypes) IsCommon(name string) bool {
	if c.names[name] {
		return true
	}
	if !strings.Contains(name, ".") {
		return c.names["java.lang."+name]
	}
	return false
}

// Excluded reports whether a declared type should be ignored for
// composition, aggregation and association.
func (c CommonTypes) Excluded(declared string) bool {
	name := NormalizeTypeName(declared)
	return name == "" || IsPrimitive(name) || c.IsCommon(name)
}

// IsPrimitive reports whether name is a primitive or void.
func IsPrimitive(name string) bool {
	return primitiveTypes[name]
}

// NormalizeTypeName reduces a declared type to the named type it refers to:
// array brackets, varargs and generic arguments are dropped.
func NormalizeTypeName(declared string) string {
	name := strings.TrimSpace(declared)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "...")
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	return strings.TrimSpace(name)
}
