package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeQuantity Type = "qty"
	TypeRemove   Type = "remove"
	TypeClear    Type = "clear"
	TypeCheckout Type = "checkout"
	TypeRemind   Type = "remind"
	TypeDone     Type = "done"
	TypeToggle   Type = "toggle"
	TypeForget   Type = "forget"
	TypeWeather  Type = "weather"
	TypeShare    Type = "share"
	TypeCurate   Type = "curate"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Item, plant and reminder references are matched by the handlers, by id
// or by name.

type AddArgs struct {
	Item     string
	Quantity int
}

type QuantityArgs struct {
	Item     string
	Quantity int
}

type RemoveArgs struct {
	Item string
}

type RemindArgs struct {
	Plant string
	Kind  model.ReminderKind
}

type ReminderArgs struct {
	Reminder string
}

type ToggleArgs struct {
	Reminder string
	Enabled  bool
}

// ShareArgs is a community post. In the palette "#success-story" adds a tag
// and "@south-india" sets the region; hyphens stand for spaces.
type ShareArgs struct {
	Content string
	Region  string
	Tags    []string
}

// CurateKeys are the questionnaire answers the curate command accepts.
var CurateKeys = []string{
	"garden", "goals", "vibe", "plants", "size", "sunlight", "location",
	"water", "climate", "issues", "experience", "option", "notes",
}

// CurateArgs holds key=value answers. A word without "=" continues the
// previous value, so "location=New Delhi" keeps the space.
type CurateArgs struct {
	Answers map[string]string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Quantity *QuantityArgs
	Remove   *RemoveArgs
	Remind   *RemindArgs
	Done     *ReminderArgs
	Toggle   *ToggleArgs
	Forget   *ReminderArgs
	Share    *ShareArgs
	Curate   *CurateArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeQuantity:
		return parseQuantity(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeClear, TypeCheckout, TypeWeather:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeRemind:
		return parseRemind(input, args)
	case TypeDone:
		return parseReminderRef(input, TypeDone, args)
	case TypeToggle:
		return parseToggle(input, args)
	case TypeForget:
		return parseReminderRef(input, TypeForget, args)
	case TypeShare:
		return parseShare(input, args)
	case TypeCurate:
		return parseCurate(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires an item"}
	}
	qty := 1
	if n, ok := trailingInt(args); ok {
		if len(args) == 1 {
			// a bare number is an item id
			return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Item: args[0], Quantity: 1}}, nil
		}
		if n < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "quantity must be at least 1"}
		}
		qty = n
		args = args[:len(args)-1]
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Item: strings.Join(args, " "), Quantity: qty}}, nil
}

func parseQuantity(raw string, args []string) (Command, error) {
	n, ok := trailingInt(args)
	if len(args) < 2 || !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "qty requires an item and a number"}
	}
	item := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeQuantity, Raw: raw, Quantity: &QuantityArgs{Item: item, Quantity: n}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remove requires an item"}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Item: strings.Join(args, " ")}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a plant and a kind"}
	}
	kind, err := model.ParseReminderKind(args[len(args)-1])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown reminder kind %q", args[len(args)-1])}
	}
	plant := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Plant: plant, Kind: kind}}, nil
}

func parseReminderRef(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a reminder", typ)}
	}
	ref := &ReminderArgs{Reminder: strings.Join(args, " ")}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeDone {
		cmd.Done = ref
	} else {
		cmd.Forget = ref
	}
	return cmd, nil
}

func parseToggle(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "toggle requires a reminder and on|off"}
	}
	var enabled bool
	switch strings.ToLower(args[len(args)-1]) {
	case "on", "enable", "enabled":
		enabled = true
	case "off", "disable", "disabled":
		enabled = false
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "toggle state must be on or off"}
	}
	ref := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeToggle, Raw: raw, Toggle: &ToggleArgs{Reminder: ref, Enabled: enabled}}, nil
}

func parseShare(raw string, args []string) (Command, error) {
	share := &ShareArgs{}
	var words []string
	for _, a := range args {
		switch {
		case len(a) > 1 && strings.HasPrefix(a, "#"):
			share.Tags = append(share.Tags, strings.ReplaceAll(a[1:], "-", " "))
		case len(a) > 1 && strings.HasPrefix(a, "@"):
			share.Region = strings.ReplaceAll(a[1:], "-", " ")
		default:
			words = append(words, a)
		}
	}
	if len(words) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "share requires some text"}
	}
	share.Content = strings.Join(words, " ")
	return Command{Type: TypeShare, Raw: raw, Share: share}, nil
}

func parseCurate(raw string, args []string) (Command, error) {
	answers := make(map[string]string)
	last := ""
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			if last == "" {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("expected key=value, got %q", a)}
			}
			answers[last] += " " + a
			continue
		}
		k = strings.ToLower(k)
		if !slices.Contains(CurateKeys, k) {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown answer %q (want one of %s)", k, strings.Join(CurateKeys, ", "))}
		}
		answers[k] = v
		last = k
	}
	return Command{Type: TypeCurate, Raw: raw, Curate: &CurateArgs{Answers: answers}}, nil
}

func trailingInt(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}
