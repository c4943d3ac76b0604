package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted by the store packages.
var (
	IDMUS           = idMUS{}
	CatalogEntryMUS = catalogEntryMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

var (
	_ mus.Serializer[ID]           = IDMUS
	_ mus.Serializer[CatalogEntry] = CatalogEntryMUS
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type catalogEntryMUS struct{}

func (catalogEntryMUS) Marshal(v CatalogEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.AnalyteCode, bs)
	n += ord.String.Marshal(v.Label, bs[n:])
	n += ord.String.Marshal(v.NormalizedLabel, bs[n:])
	n += ord.String.Marshal(v.ExternalCode, bs[n:])
	n += ord.String.Marshal(v.Chapter, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return
}

func (catalogEntryMUS) Unmarshal(bs []byte) (v CatalogEntry, n int, err error) {
	var n1 int
	if v.AnalyteCode, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Label, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.NormalizedLabel, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ExternalCode, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Chapter, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return
}

func (catalogEntryMUS) Size(v CatalogEntry) (size int) {
	size = ord.String.Size(v.AnalyteCode)
	size += ord.String.Size(v.Label)
	size += ord.String.Size(v.NormalizedLabel)
	size += ord.String.Size(v.ExternalCode)
	size += ord.String.Size(v.Chapter)
	size += vectorMUS.Size(v.Vector)
	return
}

func (catalogEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 5; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	return
}
