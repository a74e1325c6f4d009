package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

func bits(v []float32) []uint32 {
	out := make([]uint32, len(v))
	for i, f := range v {
		out[i] = math.Float32bits(f)
	}
	return out
}

func l2(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.EmbeddingService = (*EmbeddingService)(nil)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, "hash-sha256", svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestVector_Golden(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []uint32
	}{
		{
			name: "empty string",
			text: "",
			want: []uint32{
				0x3ed30477, 0x3e4db72b, 0x3e9145f8, 0xbe826d89,
				0x3dcfd616, 0x3f0404b9, 0xbed30477, 0xbee3fbd2,
			},
		},
		{
			name: "test",
			text: "test",
			want: []uint32{
				0x3e9a2009, 0x3d7e6dc5, 0x3f44f00b, 0x3c6adb7b,
				0x3da65b77, 0xbefbfb7c, 0xbcc3b6e6, 0xbe81a92c,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bits(Vector(tc.text, 8)))
		})
	}
}

func TestVector_GoldenFullDimension(t *testing.T) {
	empty := Vector("", 1536)
	require.Len(t, empty, 1536)
	assert.Equal(t, []uint32{0x3d15f4e6, 0x3c92305a, 0x3cce7913, 0xbcb95f9f}, bits(empty[:4]))

	test := Vector("test", 1536)
	require.Len(t, test, 1536)
	assert.Equal(t, []uint32{0x3c38b128, 0x3b1871b8, 0x3cebfed0, 0x3a0cb7bd}, bits(test[:4]))
}

func TestVector_RepeatsCyclically(t *testing.T) {
	v := Vector("cyclic", 100)
	for i := 32; i < 100; i++ {
		assert.Equal(t, v[i-32], v[i], "component %d", i)
	}
}

func TestVector_Deterministic(t *testing.T) {
	for _, text := range []string{"", "a", "Senior Go engineer", "résumé ✓"} {
		for _, dim := range []int{1, 31, 32, 33, 1536} {
			assert.Equal(t, bits(Vector(text, dim)), bits(Vector(text, dim)))
		}
	}
}

func TestVector_UnitNorm(t *testing.T) {
	for _, text := range []string{"", "x", "Python developer with 5 years", "日本語"} {
		for _, dim := range []int{8, 384, 1536} {
			v := Vector(text, dim)
			assert.InDelta(t, 1.0, l2(v), 1e-6, "text %q dim %d", text, dim)
		}
	}
}

func TestEmbed(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 16})

	v, err := svc.Embed(context.Background(), "test")
	require.NoError(t, err)
	assert.Len(t, v, 16)
	assert.Equal(t, bits(Vector("test", 16)), bits(v))
}

func TestEmbedBatch(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 16})

	vs, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "a"})
	require.NoError(t, err)
	require.Len(t, vs, 3)
	assert.Equal(t, vs[0], vs[2])
	assert.NotEqual(t, vs[0], vs[1])
}

func TestEmbed_Cancelled(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 16})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Embed(ctx, "test")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = svc.EmbedBatch(ctx, []string{"test"})
	assert.ErrorIs(t, err, context.Canceled)
}
