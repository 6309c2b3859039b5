package algorithm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const TypeUUID = "UUID"

var _ KeyGenerateAlgorithm = &UUID{}

// UUID 生成去掉连字符的 UUID 字符串
type UUID struct {
	newUUID func() (uuid.UUID, error)
}

func NewUUID(props map[string]string) (*UUID, error) {
	p := struct {
		Version string `prop:"version"`
	}{Version: "v4"}
	if err := decodeProps(props, &p); err != nil {
		return nil, err
	}
	switch strings.ToLower(p.Version) {
	case "v4":
		return &UUID{newUUID: uuid.NewRandom}, nil
	case "v7":
		return &UUID{newUUID: uuid.NewV7}, nil
	default:
		return nil, fmt.Errorf("%w: 不支持的 UUID 版本 %s", ErrInvalidProps, p.Version)
	}
}

func (u *UUID) Type() string {
	return TypeUUID
}

func (u *UUID) GenerateKey(_ context.Context) (any, error) {
	id, err := u.newUUID()
	if err != nil {
		return nil, err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
