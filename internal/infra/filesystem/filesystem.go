package filesystem

type (
	Reader interface {
		ReadTOML(path string, target any) error
	}
	Writer interface {
		WriteTOML(path string, data any) error
		WriteBytes(path string, data []byte) error
	}
)
