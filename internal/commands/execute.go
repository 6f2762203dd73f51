package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Quantity func(QuantityArgs) (Result, error)
	Remove   func(RemoveArgs) (Result, error)
	Clear    func() (Result, error)
	Checkout func() (Result, error)
	Remind   func(RemindArgs) (Result, error)
	Done     func(ReminderArgs) (Result, error)
	Toggle   func(ToggleArgs) (Result, error)
	Forget   func(ReminderArgs) (Result, error)
	Weather  func() (Result, error)
	Share    func(ShareArgs) (Result, error)
	Curate   func(CurateArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeQuantity:
		if handlers.Quantity == nil {
			return missing(cmd.Type)
		}
		return handlers.Quantity(*cmd.Quantity)
	case TypeRemove:
		if handlers.Remove == nil {
			return missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Remove)
	case TypeClear:
		if handlers.Clear == nil {
			return missing(cmd.Type)
		}
		return handlers.Clear()
	case TypeCheckout:
		if handlers.Checkout == nil {
			return missing(cmd.Type)
		}
		return handlers.Checkout()
	case TypeRemind:
		if handlers.Remind == nil {
			return missing(cmd.Type)
		}
		return handlers.Remind(*cmd.Remind)
	case TypeDone:
		if handlers.Done == nil {
			return missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeToggle:
		if handlers.Toggle == nil {
			return missing(cmd.Type)
		}
		return handlers.Toggle(*cmd.Toggle)
	case TypeForget:
		if handlers.Forget == nil {
			return missing(cmd.Type)
		}
		return handlers.Forget(*cmd.Forget)
	case TypeWeather:
		if handlers.Weather == nil {
			return missing(cmd.Type)
		}
		return handlers.Weather()
	case TypeShare:
		if handlers.Share == nil {
			return missing(cmd.Type)
		}
		return handlers.Share(*cmd.Share)
	case TypeCurate:
		if handlers.Curate == nil {
			return missing(cmd.Type)
		}
		return handlers.Curate(*cmd.Curate)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
