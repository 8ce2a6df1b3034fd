// Package cliutil holds formatting and argument-dispatch helpers shared by
// the cobra command tree in cmd/squrl/cli: the KeyValueList CRUD grammar
// (get/set/add/delete/rename) repeated across `env key`, `request params`,
// `request header`, and `request body key`, and the response-printing rules
// `send`/`try`'s option flags modulate (spec.md §6.1).
package cliutil

import (
	"fmt"
	"io"

	"github.com/arayel/squrl/internal/objectmodel"
)

// KeyOp is one of the five verbs the CLI grammar accepts for a KeyValueList
// edit: `get KEY`, `set KEY VALUE`, `add KEY VALUE`, `delete KEY`, `rename
// KEY NEW_KEY`.
type KeyOp struct {
	Verb   string
	Key    string
	Value  string
	NewKey string
}

// ParseKeyOp parses the CLI arguments following a `<key-op>` grammar slot
// into a KeyOp, or an error naming the unsupported verb/arity.
func ParseKeyOp(args []string) (KeyOp, error) {
	if len(args) == 0 {
		return KeyOp{}, fmt.Errorf("cliutil: missing key operation (get|set|add|delete|rename)")
	}
	verb := args[0]
	rest := args[1:]
	switch verb {
	case "get", "delete":
		if len(rest) != 1 {
			return KeyOp{}, fmt.Errorf("cliutil: %q requires exactly one KEY argument", verb)
		}
		return KeyOp{Verb: verb, Key: rest[0]}, nil
	case "set", "add":
		if len(rest) != 2 {
			return KeyOp{}, fmt.Errorf("cliutil: %q requires KEY and VALUE arguments", verb)
		}
		return KeyOp{Verb: verb, Key: rest[0], Value: rest[1]}, nil
	case "rename":
		if len(rest) != 2 {
			return KeyOp{}, fmt.Errorf("cliutil: rename requires KEY and NEW_KEY arguments")
		}
		return KeyOp{Verb: verb, Key: rest[0], NewKey: rest[1]}, nil
	default:
		return KeyOp{}, fmt.Errorf("cliutil: unknown key operation %q", verb)
	}
}

// ApplyToEnv runs op against env, writing the result (for `get`) to w.
func ApplyToEnv(w io.Writer, env *objectmodel.EnvValues, op KeyOp) error {
	switch op.Verb {
	case "get":
		value, ok := env.Get(op.Key)
		if !ok {
			return fmt.Errorf("cliutil: key %q not found", op.Key)
		}
		fmt.Fprintln(w, value)
		return nil
	case "set", "add":
		return env.Insert(op.Key, op.Value)
	case "delete":
		env.Delete(op.Key)
		return nil
	case "rename":
		return env.RenameKey(op.Key, op.NewKey)
	}
	return fmt.Errorf("cliutil: unhandled key operation %q", op.Verb)
}

// ApplyToKeyValueList runs op against *list (params/headers/form/multipart
// entries), writing the result (for `get`) to w. It returns the possibly
// replaced list, since Delete/Duplicate return new slice headers.
func ApplyToKeyValueList(w io.Writer, list objectmodel.KeyValueList, op KeyOp) (objectmodel.KeyValueList, error) {
	switch op.Verb {
	case "get":
		row, err := list.Find(op.Key)
		if err != nil {
			return list, err
		}
		fmt.Fprintln(w, list[row].Value)
		return list, nil
	case "add":
		return list.Create(op.Key, op.Value), nil
	case "set":
		row, err := list.Find(op.Key)
		if err != nil {
			return list, err
		}
		return list, list.Modify(row, 1, op.Value)
	case "delete":
		row, err := list.Find(op.Key)
		if err != nil {
			return list, err
		}
		return list.Delete(row)
	case "rename":
		row, err := list.Find(op.Key)
		if err != nil {
			return list, err
		}
		return list, list.Modify(row, 0, op.NewKey)
	}
	return list, fmt.Errorf("cliutil: unhandled key operation %q", op.Verb)
}
