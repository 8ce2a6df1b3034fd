package cliutil_test

import (
	"bytes"
	"testing"

	"github.com/arayel/squrl/internal/cliutil"
	"github.com/arayel/squrl/internal/objectmodel"
)

func TestParseKeyOp(t *testing.T) {
	cases := []struct {
		args []string
		want cliutil.KeyOp
	}{
		{[]string{"get", "k"}, cliutil.KeyOp{Verb: "get", Key: "k"}},
		{[]string{"set", "k", "v"}, cliutil.KeyOp{Verb: "set", Key: "k", Value: "v"}},
		{[]string{"add", "k", "v"}, cliutil.KeyOp{Verb: "add", Key: "k", Value: "v"}},
		{[]string{"delete", "k"}, cliutil.KeyOp{Verb: "delete", Key: "k"}},
		{[]string{"rename", "k", "k2"}, cliutil.KeyOp{Verb: "rename", Key: "k", NewKey: "k2"}},
	}
	for _, c := range cases {
		got, err := cliutil.ParseKeyOp(c.args)
		if err != nil {
			t.Fatalf("ParseKeyOp(%v): %v", c.args, err)
		}
		if got != c.want {
			t.Errorf("ParseKeyOp(%v) = %+v, want %+v", c.args, got, c.want)
		}
	}
}

func TestParseKeyOp_Errors(t *testing.T) {
	cases := [][]string{
		{},
		{"bogus", "k"},
		{"get"},
		{"set", "k"},
		{"rename", "k"},
	}
	for _, args := range cases {
		if _, err := cliutil.ParseKeyOp(args); err == nil {
			t.Errorf("ParseKeyOp(%v): expected error", args)
		}
	}
}

func TestApplyToEnv_SetGetDelete(t *testing.T) {
	env := objectmodel.NewEnvValues()
	var buf bytes.Buffer

	if err := cliutil.ApplyToEnv(&buf, env, cliutil.KeyOp{Verb: "set", Key: "token", Value: "abc"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cliutil.ApplyToEnv(&buf, env, cliutil.KeyOp{Verb: "get", Key: "token"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := buf.String(); got != "abc\n" {
		t.Errorf("got %q, want %q", got, "abc\n")
	}

	if err := cliutil.ApplyToEnv(&buf, env, cliutil.KeyOp{Verb: "delete", Key: "token"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := env.Get("token"); ok {
		t.Error("expected token to be deleted")
	}
}

func TestApplyToEnv_Rename(t *testing.T) {
	env := objectmodel.NewEnvValues()
	env.Set("old", "v")
	if err := cliutil.ApplyToEnv(io_Discard{}, env, cliutil.KeyOp{Verb: "rename", Key: "old", NewKey: "new"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, ok := env.Get("old"); ok {
		t.Error("old key should be gone")
	}
	if v, ok := env.Get("new"); !ok || v != "v" {
		t.Errorf("new key: got %q, %v", v, ok)
	}
}

func TestApplyToKeyValueList_AddGetSetDeleteRename(t *testing.T) {
	var list objectmodel.KeyValueList
	var buf bytes.Buffer

	list, err := cliutil.ApplyToKeyValueList(&buf, list, cliutil.KeyOp{Verb: "add", Key: "X-Trace", Value: "1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(list) != 1 || !list[0].Enabled {
		t.Fatalf("unexpected list after add: %+v", list)
	}

	if _, err := cliutil.ApplyToKeyValueList(&buf, list, cliutil.KeyOp{Verb: "get", Key: "X-Trace"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := buf.String(); got != "1\n" {
		t.Errorf("got %q", got)
	}

	list, err = cliutil.ApplyToKeyValueList(&buf, list, cliutil.KeyOp{Verb: "set", Key: "X-Trace", Value: "2"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if list[0].Value != "2" {
		t.Errorf("value after set: got %q", list[0].Value)
	}

	list, err = cliutil.ApplyToKeyValueList(&buf, list, cliutil.KeyOp{Verb: "rename", Key: "X-Trace", NewKey: "X-Trace-Id"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if list[0].Key != "X-Trace-Id" {
		t.Errorf("key after rename: got %q", list[0].Key)
	}

	list, err = cliutil.ApplyToKeyValueList(&buf, list, cliutil.KeyOp{Verb: "delete", Key: "X-Trace-Id"})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list after delete, got %+v", list)
	}
}

func TestApplyToKeyValueList_GetMissingKeyFails(t *testing.T) {
	var list objectmodel.KeyValueList
	var buf bytes.Buffer
	if _, err := cliutil.ApplyToKeyValueList(&buf, list, cliutil.KeyOp{Verb: "get", Key: "missing"}); err == nil {
		t.Fatal("expected error for missing key")
	}
}

type io_Discard struct{}

func (io_Discard) Write(p []byte) (int, error) { return len(p), nil }
