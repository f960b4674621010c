package game

import (
	"errors"
	"math"
	"testing"
)

// aimAt 从攻击者左上角（弹体出生点）指向目标中心
func aimAt(from, to *Player) float64 {
	cx, cy := to.Center()
	return math.Atan2(cy-from.Y, cx-from.X)
}

func TestDefaultHitScenario(t *testing.T) {
	w := newTestWorld(t, nil)
	attacker := mustJoin(t, w, "attacker")
	target := mustJoin(t, w, "target")
	attacker.X, attacker.Y = 100, 100
	target.X, target.Y = 120, 100

	if _, err := w.Attack("attacker", aimAt(attacker, target), AbilityDefault); err != nil {
		t.Fatal(err)
	}
	def, _ := w.Registry().Lookup(AbilityDefault)

	travelled := 0.0
	for i := 0; i < 10 && len(w.Projectiles()) > 0; i++ {
		res := w.Step(33)
		travelled += def.Speed
		if len(res.Hits) == 0 {
			if target.Health != DefaultMaxHealth {
				t.Fatalf("damage without hit at tick %d", res.Tick)
			}
			continue
		}
		if travelled < 20 {
			t.Fatalf("hit after only %v units", travelled)
		}
		if res.Hits[0].TargetID != "target" || res.Hits[0].OwnerID != "attacker" {
			t.Fatalf("unexpected hit %+v", res.Hits[0])
		}
		if len(w.Projectiles()) != 0 {
			t.Fatal("projectile should be removed on the tick it hits")
		}
	}
	if target.Health != DefaultMaxHealth-def.Damage {
		t.Fatalf("target health = %d, want %d", target.Health, DefaultMaxHealth-def.Damage)
	}
	if attacker.Health != DefaultMaxHealth {
		t.Fatal("owner must never be hit by its own projectile")
	}
}

func TestEffectFiresAtMostOnce(t *testing.T) {
	w := newTestWorld(t, nil)
	a := mustJoin(t, w, "a")
	b := mustJoin(t, w, "b")
	c := mustJoin(t, w, "c")
	a.X, a.Y = 0, 0
	// b 与 c 重叠，第一帧弹体同时进入两人命中范围
	b.X, b.Y = -8, -8
	c.X, c.Y = -8, -8
	if _, err := w.Attack("a", 0, AbilityDefault); err != nil {
		t.Fatal(err)
	}
	res := w.Step(33)
	if len(res.Hits) != 1 || res.Hits[0].TargetID != "b" {
		t.Fatalf("expected single hit on b (join order), got %+v", res.Hits)
	}
	for i := 0; i < 40; i++ {
		if res := w.Step(33); len(res.Hits) != 0 {
			t.Fatalf("effect re-applied on tick %d", res.Tick)
		}
	}
	if b.Health != 90 || c.Health != 100 {
		t.Fatalf("health b=%d c=%d", b.Health, c.Health)
	}
}

func TestTwoProjectilesMayHitSameTargetInOneTick(t *testing.T) {
	w := newTestWorld(t, nil)
	a := mustJoin(t, w, "a")
	b := mustJoin(t, w, "b")
	a.X, a.Y = 0, 0
	b.X, b.Y = -8, -8
	for i := 0; i < 2; i++ {
		if _, err := w.Attack("a", 0, AbilityDefault); err != nil {
			t.Fatal(err)
		}
	}
	res := w.Step(33)
	if len(res.Hits) != 2 {
		t.Fatalf("expected two hits, got %d", len(res.Hits))
	}
	if b.Health != 80 {
		t.Fatalf("health = %d, want 80", b.Health)
	}
}

func TestProjectileLifetime(t *testing.T) {
	w := newTestWorld(t, nil)
	mustJoin(t, w, "a")
	if _, err := w.Attack("a", math.Pi/2, AbilityDefault); err != nil {
		t.Fatal(err)
	}
	elapsed := 0.0
	for len(w.Projectiles()) > 0 {
		w.Step(40)
		elapsed += 40
		if len(w.Projectiles()) > 0 && elapsed >= 1000 {
			t.Fatalf("projectile alive after %vms", elapsed)
		}
		if elapsed > 2000 {
			t.Fatal("projectile never expired")
		}
	}
	if elapsed < 1000 {
		t.Fatalf("projectile expired early at %vms", elapsed)
	}
}

func TestOrphanProjectileStillHits(t *testing.T) {
	w := newTestWorld(t, nil)
	a := mustJoin(t, w, "a")
	b := mustJoin(t, w, "b")
	a.X, a.Y = 100, 100
	b.X, b.Y = 160, 100
	if _, err := w.Attack("a", aimAt(a, b), AbilityDefault); err != nil {
		t.Fatal(err)
	}
	w.Leave("a")
	hit := false
	for i := 0; i < 20 && !hit; i++ {
		hit = len(w.Step(33).Hits) > 0
	}
	if !hit || b.Health != 90 {
		t.Fatalf("orphan projectile should hit b, hit=%v health=%d", hit, b.Health)
	}
}

func TestHealthNeverNegative(t *testing.T) {
	w := newTestWorld(t, nil)
	a := mustJoin(t, w, "a")
	b := mustJoin(t, w, "b")
	a.X, a.Y = 0, 0
	b.X, b.Y = -8, -8
	for i := 0; i < 15; i++ {
		if _, err := w.Attack("a", 0, AbilityDefault); err != nil {
			t.Fatal(err)
		}
		w.Step(33)
		if b.Health < 0 || b.Health > b.MaxHealth {
			t.Fatalf("health out of range: %d", b.Health)
		}
	}
	if b.Health != 0 {
		t.Fatalf("health = %d, want 0", b.Health)
	}
	b.Damage(-500)
	if b.Health != b.MaxHealth {
		t.Fatalf("heal should clamp to max, got %d", b.Health)
	}
}

func TestAbilityEffects(t *testing.T) {
	w := newTestWorld(t, nil)
	a := mustJoin(t, w, "a")
	b := mustJoin(t, w, "b")
	a.X, a.Y = 0, 0
	b.X, b.Y = -8, -8

	if _, err := w.Attack("a", 0, AbilityExplosive); err != nil {
		t.Fatal(err)
	}
	res := w.Step(33)
	if len(res.Hits) != 1 || !res.Hits[0].Announce || res.Hits[0].Kind != KindExplosive {
		t.Fatalf("explosive hit should be announced: %+v", res.Hits)
	}
	if got := res.Hits[0].String(); got != "b hit by explosive snowball!" {
		t.Errorf("hit message = %q", got)
	}

	if _, err := w.Attack("a", 0, AbilityFreeze); err != nil {
		t.Fatal(err)
	}
	w.Step(33)
	if !b.Frozen() || b.FrozenMs != 3000 {
		t.Fatalf("freeze should set 3000ms, got %v", b.FrozenMs)
	}
	if b.Health != DefaultMaxHealth {
		t.Fatalf("freeze should not damage, health=%d", b.Health)
	}
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	if ids := reg.IDs(); len(ids) != 3 || ids[0] != AbilityDefault {
		t.Fatalf("unexpected ids %v", ids)
	}
	d, err := reg.Lookup(AbilityDefault)
	if err != nil || d.Speed != 11 || d.LifetimeMs != 1000 || d.Damage != 10 {
		t.Fatalf("unexpected default ability %+v err=%v", d, err)
	}
	if _, err := reg.Lookup("nope"); !errors.Is(err, ErrInvalidAbility) {
		t.Fatalf("expected ErrInvalidAbility, got %v", err)
	}
	if _, err := NewRegistry(AbilityDefinition{ID: "x"}, AbilityDefinition{ID: "x"}); err == nil {
		t.Fatal("duplicate ids should be rejected")
	}
	if _, err := NewRegistry(AbilityDefinition{}); err == nil {
		t.Fatal("empty id should be rejected")
	}
}
