package op

// Type describes the type of an operand on the shadow stack and in local
// slots. The Number type is wide and occupies two stack slots, mirroring the
// double-width layout of the execution model. All other types occupy one.
type Type uint16

const (
	Unknown Type = 0

	// Scalars
	Int    Type = 1
	Number Type = 2 // wide
	Bool   Type = 3
	String Type = 4

	// References
	Object Type = 5
	Scope  Type = 6

	// Arrays
	IntArray    Type = 7
	NumberArray Type = 8
	StringArray Type = 9
	ObjectArray Type = 10
)

// IsValid reports whether t is one of the defined operand types. Unknown
// is not a valid operand type.
func (t Type) IsValid() bool {
	return t >= Int && t <= ObjectArray
}

// Width returns the number of stack slots a value of this type occupies.
func (t Type) Width() int {
	if t == Number {
		return 2
	}
	return 1
}

// IsArray returns true for the array types.
func (t Type) IsArray() bool {
	switch t {
	case IntArray, NumberArray, StringArray, ObjectArray:
		return true
	}
	return false
}

// Elem returns the element type of an array type, or Unknown for
// non-array types.
func (t Type) Elem() Type {
	switch t {
	case IntArray:
		return Int
	case NumberArray:
		return Number
	case StringArray:
		return String
	case ObjectArray:
		return Object
	}
	return Unknown
}

// ArrayOf returns the array type with the given element type. The second
// return value is false if no such array type exists.
func ArrayOf(elem Type) (Type, bool) {
	switch elem {
	case Int:
		return IntArray, true
	case Number:
		return NumberArray, true
	case String:
		return StringArray, true
	case Object:
		return ObjectArray, true
	}
	return Unknown, false
}

// IsReference returns true if values of this type are represented as
// references, which makes them valid inputs to a checked cast.
func (t Type) IsReference() bool {
	return t == String || t == Object || t == Scope || t.IsArray()
}

// IsNumeric returns true for the types that support arithmetic.
func (t Type) IsNumeric() bool {
	return t == Int || t == Number
}

// String returns a short lowercase name for the type.
func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Object:
		return "object"
	case Scope:
		return "scope"
	case IntArray:
		return "int[]"
	case NumberArray:
		return "number[]"
	case StringArray:
		return "string[]"
	case ObjectArray:
		return "object[]"
	}
	return "unknown"
}
