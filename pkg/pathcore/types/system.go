package types

// SystemNamespace holds the built-in primitive types.
const SystemNamespace = "System"

// Primitive singletons. Every primitive derives from Any.
var (
	Any      = mustSimple("Any", nil)
	Boolean  = mustSimple("Boolean", Any)
	Integer  = mustSimple("Integer", Any)
	Decimal  = mustSimple("Decimal", Any)
	String   = mustSimple("String", Any)
	Date     = mustSimple("Date", Any)
	Time     = mustSimple("Time", Any)
	DateTime = mustSimple("DateTime", Any)
	Quantity = mustSimple("Quantity", Any)
)

var (
	// EmptyList is the type of the empty collection.
	EmptyList = MustList(Any, None)

	// AnyList accepts a collection of any size and content.
	AnyList = MustList(Any, Many)
)

// Primitives returns the System primitive types.
func Primitives() []*Simple {
	return []*Simple{Any, Boolean, Integer, Decimal, String, Date, Time, DateTime, Quantity}
}

func mustSimple(name string, base Descriptor) *Simple {
	s, err := NewSimple(SystemNamespace, name, base)
	if err != nil {
		panic(err)
	}
	return s
}
