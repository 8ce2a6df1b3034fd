package transport

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/types/descriptorpb"
)

// keepWideIntsNumeric re-encodes raw (the output of dynamic.Message's
// default MarshalJSON, which follows the canonical proto3 JSON mapping and
// stringifies every int64/uint64/fixed64/sfixed64/sint64 field) with those
// fields turned back into bare JSON numbers, walking md's field descriptors
// recursively into nested messages.
//
// original_source's app/request/grpc/send.rs reaches for
// prost_reflect::SerializeOptions::new().stringify_64_bit_integers(false)
// to get this directly from its proto JSON encoder; jhump/protoreflect's
// jsonpb-style marshaler hard-codes the canonical mapping with no such
// option, so this rewrites its output post hoc instead.
func keepWideIntsNumeric(raw []byte, md *desc.MessageDescriptor) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return raw, nil
	}
	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return raw, nil
	}
	unquoteWideInts(obj, md)
	return json.Marshal(obj)
}

// unquoteWideInts mutates obj in place, replacing any string value under a
// 64-bit integer field's JSON name with the equivalent json.Number, and
// recursing into message-typed fields (and their repeated/array forms).
func unquoteWideInts(obj map[string]interface{}, md *desc.MessageDescriptor) {
	for _, fd := range md.GetFields() {
		name := fd.GetJSONName()
		val, ok := obj[name]
		if !ok {
			continue
		}
		if isWideIntType(fd.GetType()) {
			if fd.IsRepeated() {
				if arr, ok := val.([]interface{}); ok {
					for i, v := range arr {
						arr[i] = unquoteWideIntValue(v)
					}
				}
			} else {
				obj[name] = unquoteWideIntValue(val)
			}
			continue
		}
		if fd.GetType() != descriptorpb.FieldDescriptorProto_TYPE_MESSAGE && fd.GetType() != descriptorpb.FieldDescriptorProto_TYPE_GROUP {
			continue
		}
		nested := fd.GetMessageType()
		if nested == nil {
			continue
		}
		if fd.IsRepeated() {
			if arr, ok := val.([]interface{}); ok {
				for _, v := range arr {
					if m, ok := v.(map[string]interface{}); ok {
						unquoteWideInts(m, nested)
					}
				}
			}
			continue
		}
		if m, ok := val.(map[string]interface{}); ok {
			unquoteWideInts(m, nested)
		}
	}
}

func isWideIntType(t descriptorpb.FieldDescriptorProto_Type) bool {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return true
	default:
		return false
	}
}

// unquoteWideIntValue converts a quoted 64-bit integer string into a
// json.Number; non-string or non-numeric values (already a number, or a
// malformed value the server sent) pass through unchanged.
func unquoteWideIntValue(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return json.Number(s)
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return json.Number(s)
	}
	return v
}
