package model

// Capability names one of the boolean offer flags of a company.
type Capability int

const (
	Inference Capability = iota
	GPUs
	Web3
	Finetuning
)

// AllCapabilities lists every capability in display order.
var AllCapabilities = []Capability{Inference, GPUs, Web3, Finetuning}

// Key is the stable lowercase name used in flags and config.
func (c Capability) Key() string {
	switch c {
	case Inference:
		return "inference"
	case GPUs:
		return "gpus"
	case Web3:
		return "web3"
	case Finetuning:
		return "finetuning"
	default:
		return "unknown"
	}
}

// Label is the human-readable badge text.
func (c Capability) Label() string {
	switch c {
	case Inference:
		return "Inference"
	case GPUs:
		return "GPUs"
	case Web3:
		return "Web3"
	case Finetuning:
		return "Fine-tuning"
	default:
		return "Unknown"
	}
}
