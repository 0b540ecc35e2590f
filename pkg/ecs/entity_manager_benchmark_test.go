package ecs

import (
	"reflect"
	"testing"
)

// setupBenchmarkEntities 创建 n 个带精灵组件的实体，其中一半带位置组件
func setupBenchmarkEntities(n int) *EntityManager {
	em := NewEntityManager()
	for i := 0; i < n; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testSpriteComponent{})
		if i%2 == 0 {
			em.AddComponent(id, &testPositionComponent{})
		}
	}
	return em
}

func BenchmarkGetEntitiesWith_Reflect(b *testing.B) {
	em := setupBenchmarkEntities(1000)
	spriteType := reflect.TypeOf(&testSpriteComponent{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = em.GetEntitiesWith(spriteType)
	}
}

func BenchmarkGetEntitiesWith1_Generic(b *testing.B) {
	em := setupBenchmarkEntities(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith1[*testSpriteComponent](em)
	}
}

func BenchmarkGetComponent_Generic(b *testing.B) {
	em := setupBenchmarkEntities(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = GetComponent[*testSpriteComponent](em, EntityID(i%1000+1))
	}
}
