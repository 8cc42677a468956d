package datasets

import (
	"k8s.io/klog/v2"

	"github.com/Noofbiz/multiview/errs"
)

// Stages accepted by DataModule.Setup. StageAll builds every split.
const (
	StageAll      = ""
	StageFit      = "fit"
	StageValidate = "validate"
	StageTest     = "test"
	StagePredict  = "predict"
)

// DataModule builds the datasets of each training stage from one resolved
// configuration. Each split owns its own geometry and generators.
type DataModule struct {
	cfg *Resolved

	train *IterableDataset
	val   *IndexedDataset
	test  *IndexedDataset
}

// NewDataModule resolves cfg (loading its manifest) and returns a module with
// no datasets built yet.
func NewDataModule(cfg Config) (*DataModule, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return &DataModule{cfg: resolved}, nil
}

// Config returns the resolved configuration.
func (dm *DataModule) Config() *Resolved { return dm.cfg }

// Setup builds the datasets stage needs: train for fit, val for fit and
// validate, test for test and predict. StageAll builds all of them.
func (dm *DataModule) Setup(stage string) error {
	switch stage {
	case StageAll, StageFit, StageValidate, StageTest, StagePredict:
	default:
		return errs.Configf("stage", "unknown stage %q", stage)
	}
	// splits are only published once every one of them is built
	train, val, test := dm.train, dm.val, dm.test
	var err error
	if stage == StageAll || stage == StageFit {
		if train, err = NewIterableDataset(dm.cfg); err != nil {
			return err
		}
	}
	if stage == StageAll || stage == StageFit || stage == StageValidate {
		if val, err = NewIndexedDataset(dm.cfg, "val"); err != nil {
			return err
		}
	}
	if stage == StageAll || stage == StageTest || stage == StagePredict {
		if test, err = NewIndexedDataset(dm.cfg, "test"); err != nil {
			return err
		}
	}
	dm.train, dm.val, dm.test = train, val, test
	klog.V(1).Infof("data module: stage %q ready with %d frames from %s", stage, len(dm.cfg.Frames), dm.cfg.ManifestPath)
	return nil
}

// TrainDataset returns the train split, or nil before Setup(fit).
func (dm *DataModule) TrainDataset() *IterableDataset { return dm.train }

// ValDataset returns the val split.
func (dm *DataModule) ValDataset() *IndexedDataset { return dm.val }

// TestDataset returns the test split.
func (dm *DataModule) TestDataset() *IndexedDataset { return dm.test }

// PredictDataset is the test split.
func (dm *DataModule) PredictDataset() *IndexedDataset { return dm.test }

// UpdateStep forwards the training step to every built split.
func (dm *DataModule) UpdateStep(epoch, globalStep int, onLoadWeights bool) error {
	for _, ds := range dm.sources() {
		if err := ds.UpdateStep(epoch, globalStep, onLoadWeights); err != nil {
			return err
		}
	}
	return nil
}

func (dm *DataModule) sources() []PosedBatchSource {
	var out []PosedBatchSource
	if dm.train != nil {
		out = append(out, dm.train)
	}
	if dm.val != nil {
		out = append(out, dm.val)
	}
	if dm.test != nil {
		out = append(out, dm.test)
	}
	return out
}
