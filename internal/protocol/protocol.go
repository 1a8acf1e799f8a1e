// Package protocol implements the three-block action checklist state
// machine: block unlock rules, current-block inference and completion
// detection over three fixed-length boolean action lists.
package protocol

import (
	"errors"
	"strings"
)

const (
	// BlockCount is the number of sequential action blocks.
	BlockCount = 3

	// ActionsPerBlock is the fixed length of each block's action list.
	ActionsPerBlock = 3
)

var (
	// ErrBlockLocked is returned when toggling an action whose block has
	// not been unlocked by completing the previous blocks.
	ErrBlockLocked = errors.New("conclua o bloco anterior para desbloquear esta ação")

	// ErrCompleted is returned when mutating a protocol that has already
	// been completed. Completion is one-way.
	ErrCompleted = errors.New("o protocolo deste ciclo já foi concluído")

	// ErrInvalidAction is returned for an out-of-range block or action index.
	ErrInvalidAction = errors.New("ação de protocolo inválida")
)

// blockDone reports whether every action in the list is complete. An empty
// list is never complete.
func blockDone(actions []bool) bool {
	if len(actions) == 0 {
		return false
	}
	for _, done := range actions {
		if !done {
			return false
		}
	}
	return true
}

// BlockUnlocked reports whether the given block (1-3) accepts toggles.
// Block 1 is always unlocked; block 2 needs block 1 fully done; block 3
// needs blocks 1 and 2 fully done.
func BlockUnlocked(block int, block1, block2 []bool) bool {
	switch block {
	case 1:
		return true
	case 2:
		return blockDone(block1)
	case 3:
		return blockDone(block1) && blockDone(block2)
	default:
		return false
	}
}

// CurrentBlock returns the first block not fully completed, or 3 when all
// blocks are done. Completion is signaled separately by Completed.
func CurrentBlock(block1, block2, block3 []bool) int {
	if !blockDone(block1) {
		return 1
	}
	if !blockDone(block2) {
		return 2
	}
	return 3
}

// Completed reports whether all three blocks are fully done.
func Completed(block1, block2, block3 []bool) bool {
	return blockDone(block1) && blockDone(block2) && blockDone(block3)
}

// Normalize coerces an inbound action list to the fixed block length.
// Anything that is not exactly ActionsPerBlock entries resets to all-false:
// a malformed persisted row must not fake completed actions.
func Normalize(actions []bool) []bool {
	if len(actions) != ActionsPerBlock {
		return make([]bool, ActionsPerBlock)
	}
	out := make([]bool, ActionsPerBlock)
	copy(out, actions)
	return out
}

// Toggle flips one action and returns the updated lists plus the inferred
// current block and completion state. It rejects locked blocks, completed
// protocols and out-of-range indices without mutating its inputs.
func Toggle(block, index int, block1, block2, block3 []bool, alreadyCompleted bool) (b1, b2, b3 []bool, currentBlock int, completed bool, err error) {
	if alreadyCompleted {
		return nil, nil, nil, 0, false, ErrCompleted
	}
	if block < 1 || block > BlockCount || index < 0 || index >= ActionsPerBlock {
		return nil, nil, nil, 0, false, ErrInvalidAction
	}
	if !BlockUnlocked(block, block1, block2) {
		return nil, nil, nil, 0, false, ErrBlockLocked
	}

	b1 = Normalize(block1)
	b2 = Normalize(block2)
	b3 = Normalize(block3)

	switch block {
	case 1:
		b1[index] = !b1[index]
	case 2:
		b2[index] = !b2[index]
	case 3:
		b3[index] = !b3[index]
	}

	return b1, b2, b3, CurrentBlock(b1, b2, b3), Completed(b1, b2, b3), nil
}

// ReflectionsComplete reports whether every expected reflection prompt has
// a non-blank answer. Partial submissions never count.
func ReflectionsComplete(reflections []string, expected int) bool {
	if len(reflections) < expected {
		return false
	}
	for _, answer := range reflections[:expected] {
		if strings.TrimSpace(answer) == "" {
			return false
		}
	}
	return true
}

// NormalizeReflections coerces an inbound reflection list to the expected
// prompt count, padding with empty strings and truncating extras.
func NormalizeReflections(reflections []string, expected int) []string {
	out := make([]string, expected)
	copy(out, reflections)
	return out
}
