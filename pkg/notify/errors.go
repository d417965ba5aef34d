package notify

type notifyError string

// ErrClosed is returned when subscribing to a closed transport.
const ErrClosed = notifyError("notifier closed")

func (e notifyError) Error() string {
	return string(e)
}
