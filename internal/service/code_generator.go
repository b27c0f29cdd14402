package service

type CodeGenerator interface {
	Generate() (string, error)
}
