package upload

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownOption = errors.New("unknown upload option")
	ErrEmptyTag      = errors.New("tag must not be empty")
)

const maxDescriptionLen = 2048

// Options is the per-upload metadata forwarded to the server alongside the
// payload. Only the fields listed here are recognized; free-form key/value
// bags are rejected at the boundary by ParseOptions.
type Options struct {
	Folder      string   `json:"folder,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
}

func DefaultOptions() *Options {
	return &Options{}
}

// ParseOptions builds Options from raw key/value pairs, failing on any key
// that is not a recognized field.
func ParseOptions(kv map[string]string) (*Options, error) {
	opts := DefaultOptions()

	for key, value := range kv {
		switch key {
		case "folder":
			opts.Folder = value
		case "tags":
			for _, tag := range strings.Split(value, ",") {
				opts.Tags = append(opts.Tags, strings.TrimSpace(tag))
			}
		case "description":
			opts.Description = value
		case "assignee":
			opts.Assignee = value
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, key)
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

// Validate checks the metadata before a task is ever admitted, so a bad
// option can never surface as a mid-transfer failure.
func (o *Options) Validate() error {
	for _, tag := range o.Tags {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyTag
		}
	}

	if strings.ContainsAny(o.Folder, "\x00\n\r") {
		return fmt.Errorf("invalid folder name: %q", o.Folder)
	}

	if len(o.Description) > maxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", maxDescriptionLen)
	}

	return nil
}

// formFields flattens the options into multipart form fields.
func (o *Options) formFields() map[string]string {
	fields := make(map[string]string)

	if o.Folder != "" {
		fields["folder"] = o.Folder
	}

	if len(o.Tags) > 0 {
		fields["tags"] = strings.Join(o.Tags, ",")
	}

	if o.Description != "" {
		fields["description"] = o.Description
	}

	if o.Assignee != "" {
		fields["assignee"] = o.Assignee
	}

	return fields
}
