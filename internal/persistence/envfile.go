package persistence

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/arayel/squrl/internal/objectmodel"
)

// LoadEnvFile reads a `.env.<name>` file at path into an Environment named
// name. Lines are KEY=value pairs; blank lines and lines starting with '#'
// (after trimming) are skipped; a value may be wrapped in single or double
// quotes, which are stripped. This mirrors original_source's
// app/files/environment.rs parse_line function line for line.
func LoadEnvFile(path, name string) (*objectmodel.Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open env file %q: %w", path, err)
	}
	defer f.Close()

	env, err := objectmodel.NewEnvironment(name)
	if err != nil {
		return nil, err
	}
	env.FilePath = path

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		env.Values.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("persistence: read env file %q: %w", path, err)
	}
	return env, nil
}

// parseEnvLine parses a single .env line, returning ok=false for a blank
// line, a comment line, or a line with no '=' separator.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", false
	}

	key = line[:idx]
	value = unquote(line[idx+1:])
	return key, value, true
}

// unquote strips a single layer of matching single or double quotes from s,
// if present, and unescapes standard string escape sequences inside the
// result — matching original_source's `snailquote::unescape(right)`, which
// runs over the quoted right-hand side of every KEY=value line.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return unescapeString(s[1 : len(s)-1])
		}
	}
	return s
}

// unescapeString decodes backslash escape sequences (\\, \", \', \n, \r, \t,
// \0, \a, \b, \f, \v) left to right; an unrecognized escape is passed
// through with its backslash dropped, matching a permissive dotenv-style
// unescape rather than erroring on every unknown sequence.
func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// SaveEnvFile writes env back to its FilePath as KEY=value lines in
// insertion order, via the atomic WriteFile helper.
func SaveEnvFile(env *objectmodel.Environment) error {
	if env.FilePath == "" {
		return fmt.Errorf("persistence: environment %q has no file path", env.Name)
	}

	var b strings.Builder
	keys := env.Values.Keys()
	for i, k := range keys {
		v, _ := env.Values.Get(k)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		if i < len(keys)-1 {
			b.WriteByte('\n')
		}
	}
	return WriteFile(env.FilePath, []byte(b.String()), 0o644)
}
