package m2

import "fmt"

var sequenceNames = map[uint16]string{
	0: "Stand", 1: "Death", 2: "Spell", 3: "Stop", 4: "Walk", 5: "Run",
	6: "Dead", 7: "Rise", 8: "StandWound", 9: "CombatWound", 10: "CombatCritical",
	11: "ShuffleLeft", 12: "ShuffleRight", 13: "Walkbackwards", 14: "Stun",
	15: "HandsClosed", 16: "AttackUnarmed", 17: "Attack1H", 18: "Attack2H",
	24: "ShieldBlock", 25: "ReadyUnarmed", 26: "Ready1H",
	27: "Ready2H", 34: "NPCWelcome", 35: "NPCGoodbye",
	37: "JumpStart", 38: "Jump", 39: "JumpEnd", 40: "Fall",
	41: "SwimIdle", 42: "Swim", 60: "SpellChannelDirected",
	69: "CombatAbility", 138: "Fly", 157: "EmoteTalk", 185: "FlyIdle",
}

// SequenceName returns the well-known clip name for a sequence id, or
// "Anim <id>" for ids outside the table.
func SequenceName(id uint16) string {
	if name, ok := sequenceNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Anim %d", id)
}
