package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// configParser parses profiles.config files into a configFile AST.
type configParser struct {
	parser *participle.Parser[configFile]
}

func newConfigParser() (*configParser, error) {
	p, err := participle.Build[configFile](
		participle.Lexer(ConfigLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("profile: failed to build parser: %w", err)
	}
	return &configParser{parser: p}, nil
}

func (p *configParser) parseReader(name string, r io.Reader) (*configFile, error) {
	stripped, err := stripComments(r)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", name, err)
	}

	cfg, err := p.parser.ParseString(name, stripped)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProfileParse, name, err)
	}
	return cfg, nil
}

func (p *configParser) parseFile(path string) (*configFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile: open %s: %w", path, err)
	}
	defer f.Close()

	return p.parseReader(path, f)
}

// stripComments removes lines whose first non-whitespace character is '#',
// per the profile config's error-recovery rule: comment lines are skipped
// before parsing ever sees them.
func stripComments(r io.Reader) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
