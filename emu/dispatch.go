package emu

// executeArm dispatches an already condition-passed wide instruction to
// its format handler.
func (p *Processor) executeArm(inst ArmInstruction) int {
	switch inst.Format {
	case ArmBranchExchange:
		return p.armBranchExchange(inst)
	case ArmBranchLink:
		return p.armBranchLink(inst)
	case ArmDataProcessing:
		return p.armDataProcessing(inst)
	case ArmMultiply:
		return p.armMultiply(inst)
	case ArmMultiplyLong:
		return p.armMultiplyLong(inst)
	case ArmPSRTransfer:
		return p.armPSRTransfer(inst)
	case ArmSingleDataTransfer:
		return p.armSingleDataTransfer(inst)
	case ArmHalfwordTransfer:
		return p.armHalfwordTransfer(inst)
	case ArmBlockTransfer:
		return p.armBlockTransfer(inst)
	case ArmSwap:
		return p.armSwap(inst)
	case ArmSoftwareInterrupt:
		return p.armSoftwareInterrupt(inst)
	default:
		return p.armUndefined(inst)
	}
}

// executeThumb dispatches a narrow instruction to its format handler.
func (p *Processor) executeThumb(inst ThumbInstruction) int {
	switch inst.Format {
	case ThumbMoveShifted:
		return p.thumbMoveShifted(inst)
	case ThumbAddSubtract:
		return p.thumbAddSubtract(inst)
	case ThumbImmediateOp:
		return p.thumbImmediateOp(inst)
	case ThumbALUOperation:
		return p.thumbALUOperation(inst)
	case ThumbHiRegisterOp:
		return p.thumbHiRegisterOp(inst)
	case ThumbPCRelativeLoad:
		return p.thumbPCRelativeLoad(inst)
	case ThumbLoadStoreRegOffset:
		return p.thumbLoadStoreRegOffset(inst)
	case ThumbLoadStoreSignExtended:
		return p.thumbLoadStoreSignExtended(inst)
	case ThumbLoadStoreImmOffset:
		return p.thumbLoadStoreImmOffset(inst)
	case ThumbLoadStoreHalfword:
		return p.thumbLoadStoreHalfword(inst)
	case ThumbSPRelativeLoadStore:
		return p.thumbSPRelativeLoadStore(inst)
	case ThumbLoadAddress:
		return p.thumbLoadAddress(inst)
	case ThumbAddOffsetToSP:
		return p.thumbAddOffsetToSP(inst)
	case ThumbPushPop:
		return p.thumbPushPop(inst)
	case ThumbMultipleLoadStore:
		return p.thumbMultipleLoadStore(inst)
	case ThumbConditionalBranch:
		return p.thumbConditionalBranch(inst)
	case ThumbSoftwareInterrupt:
		return p.thumbSoftwareInterrupt(inst)
	case ThumbUnconditionalBranch:
		return p.thumbUnconditionalBranch(inst)
	case ThumbLongBranchLink:
		return p.thumbLongBranchLink(inst)
	default:
		return p.tick(0, 1, 0)
	}
}

func (p *Processor) armUndefined(inst ArmInstruction) int {
	return p.raiseException(ModeUndefined, vectorUndefined, false, p.exceptionReturnAddress())
}
