package pipeline

import "fmt"

var defaultSongNames = [120]string{
	"SFX00 - Silence",
	"SFX01 - Shotgun Load",
	"SFX02 - Punch",
	"SFX03 - Item Respawn",
	"SFX04 - Fireball Launch (Unused)",
	"SFX05 - Barrel Explosion",
	"SFX06 - Lost Soul Death",
	"SFX07 - Pistol Fire",
	"SFX08 - Shotgun Fire",
	"SFX09 - Plasma Fire",
	"SFX10 - BFG9000 Fire",
	"SFX11 - Chainsaw Raise",
	"SFX12 - Chainsaw Idle",
	"SFX13 - Chainsaw Full Power",
	"SFX14 - Chainsaw Hit",
	"SFX15 - Rocket Launcher Fire",
	"SFX16 - BFG9000 Explosion",
	"SFX17 - Platform Start",
	"SFX18 - Platform Stop",
	"SFX19 - Door Open",
	"SFX20 - Door Close",
	"SFX21 - Stone Move",
	"SFX22 - Switch Normal",
	"SFX23 - Switch Exit",
	"SFX24 - Item Pick Up",
	"SFX25 - Weapon Pick Up",
	"SFX26 - Player Oof",
	"SFX27 - Teleport",
	"SFX28 - Player Grunt",
	"SFX29 - Super Shotgun Fire",
	"SFX30 - Super Shotgun Open",
	"SFX31 - Super Shotgun Load",
	"SFX32 - Super Shotgun Close",
	"SFX33 - Player Pain",
	"SFX34 - Player Death",
	"SFX35 - Slop",
	"SFX36 - Zombieman Alert 1",
	"SFX37 - Zombieman Alert 2",
	"SFX38 - Zombieman Alert 3",
	"SFX39 - Zombieman Death 1",
	"SFX40 - Zombieman Death 2",
	"SFX41 - Zombieman Death 3",
	"SFX42 - Zombieman Active",
	"SFX43 - Zombieman Pain",
	"SFX44 - Demon Pain",
	"SFX45 - Demon Active",
	"SFX46 - Imp Attack",
	"SFX47 - Imp Alert 1",
	"SFX48 - Imp Alert 2",
	"SFX49 - Imp Death 1",
	"SFX50 - Imp Death 2",
	"SFX51 - Imp Active",
	"SFX52 - Demon Alert",
	"SFX53 - Demon Attack",
	"SFX54 - Demon Death",
	"SFX55 - Baron Of Hell Alert",
	"SFX56 - Baron Of Hell Death",
	"SFX57 - Cacodemon Alert",
	"SFX58 - Cacodemon Death",
	"SFX59 - Lost Soul Attack",
	"SFX60 - Lost Soul Death",
	"SFX61 - Hell Knight Alert",
	"SFX62 - Hell Knight Death",
	"SFX63 - Pain Elemental Alert",
	"SFX64 - Pain Elemental Pain",
	"SFX65 - Pain Elemental Death",
	"SFX66 - Arachnotron Alert",
	"SFX67 - Arachnotron Death",
	"SFX68 - Arachnotron Active",
	"SFX69 - Arachnotron Walk",
	"SFX70 - Mancubus Attack",
	"SFX71 - Mancubus Alert",
	"SFX72 - Mancubus Pain",
	"SFX73 - Mancubus Death",
	"SFX74 - Fireball Launch",
	"SFX75 - Revenant Alert",
	"SFX76 - Revenant Death",
	"SFX77 - Revenant Active",
	"SFX78 - Revenant Attack",
	"SFX79 - Revenant Swing",
	"SFX80 - Revenant Punch",
	"SFX81 - Cyberdemon Alert",
	"SFX82 - Cyberdemon Death",
	"SFX83 - Cyberdemon Walk",
	"SFX84 - Spider Mastermind Walk",
	"SFX85 - Spider Mastermind Alert",
	"SFX86 - Spider Mastermind Death",
	"SFX87 - Blaze Door Open",
	"SFX88 - Blaze Door Close",
	"SFX89 - Get Power-Up",
	"D01 - Hangar",
	"D02 - Plant",
	"D03 - Toxin Refinery",
	"D04 - Command Control",
	"D05 - Phobos Lab",
	"D06 - Central Processing",
	"D07 - Computer Station",
	"D08 - Phobos Anomaly",
	"D10 - Containment Area",
	"D12 - Deimos Lab",
	"D09 - Deimos Anomaly",
	"D16 - Hell Gate",
	"D21 - Mt. Erebus",
	"D22 - Limbo",
	"D11 - Refinery",
	"D17 - Hell Keep",
	"D18 - Pandemonium",
	"D20 - Unholy Cathedral",
	"D13 - Command Center",
	"D24 - Hell Beneath",
	"F05 - Catwalk",
	"F09 - Nessus",
	"F01 - Attack",
	"F03 - Canyon",
	"F07 - Geryon",
	"F10 - Paradox",
	"F06 - Fistula",
	"F08 - Minos",
	"F02 - Virgil",
	"F04 - Combine",
}

// DefaultSongName returns the default "<name>.wav" output filename for
// songIndex, used when the caller doesn't supply an explicit output
// name. Indices beyond the known table fall back to a generic "Sn.wav".
func DefaultSongName(songIndex int) string {
	if songIndex >= 0 && songIndex < len(defaultSongNames) {
		return defaultSongNames[songIndex] + ".wav"
	}
	return fmt.Sprintf("S%d.wav", songIndex)
}
