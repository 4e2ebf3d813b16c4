package memory_test

import (
	"testing"

	"github.com/aretw0/itfview/pkg/adapters/memory"
	"github.com/aretw0/itfview/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	tests.RunPreferenceStoreContract(t, store)
}
