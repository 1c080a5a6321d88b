package profile

// configFile is the root of a parsed profiles.config file: zero or more
// named profile blocks.
type configFile struct {
	Profiles []*profileDecl `@@*`
}

// profileDecl is one "profile NAME { ... }" block.
type profileDecl struct {
	Name   string       `"profile" @String "{"`
	Fields []*fieldDecl `@@*`
	Close  string       `"}"`
}

// fieldDecl is either a "pin" declaration or a plain "key = value" setting.
type fieldDecl struct {
	Pin    *pinDecl `  @@`
	Assign *assign  `| @@`
}

// assign is a scalar "key = value" setting such as "address_width = 15".
type assign struct {
	Key   string `@Ident "="`
	Value value  `@@`
}

// value is the right-hand side of an assign or pinAttr: a bareword, an
// integer, or a quoted string.
type value struct {
	Ident *string `  @Ident`
	Int   *int    `| @Int`
	Str   *string `| @String`
}

// pinDecl declares one PAL pin's symbolic name and, optionally, which
// EPROM address and/or data bit position it occupies.
//
//	pin 12 = O0 addr=0 data=0
//
// A pin carrying both addr and data attributes is a bidirectional
// candidate: it is stimulated as an input AND read back as an output,
// which is how hi-z probing is wired up (see pkg/pinmodel).
type pinDecl struct {
	Number int        `"pin" @Int "="`
	Name   string     `@Ident`
	Attrs  []*pinAttr `@@*`
}

type pinAttr struct {
	Key   string `@Ident "="`
	Value int    `@Int`
}
