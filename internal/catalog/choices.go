package catalog

import (
	"github.com/aws/aws-sdk-go/aws/endpoints"
)

// DropletSizes are the DigitalOcean size slugs offered for docker-machine.
var DropletSizes = []string{
	"s-1vcpu-1gb",
	"s-1vcpu-2gb",
	"s-2vcpu-2gb",
	"s-2vcpu-4gb",
	"s-4vcpu-8gb",
	"s-6vcpu-16gb",
	"s-8vcpu-32gb",
	"s-12vcpu-48gb",
	"s-16vcpu-64gb",
	"s-20vcpu-96gb",
	"s-24vcpu-128gb",
	"s-32vcpu-192gb",
}

// GCPZones are the zones offered for the Deep Learning VM.
var GCPZones = []string{
	"us-west1-a", "us-west1-b", "us-west1-c",
	"us-west2-a", "us-west2-b", "us-west2-c",
	"us-east1-b", "us-east1-c", "us-east1-d",
	"us-east4-a", "us-east4-b", "us-east4-c",
	"us-central1-a", "us-central1-b", "us-central1-c", "us-central1-f",
	"southamerica-east1-a", "southamerica-east1-b", "southamerica-east1-c",
	"northamerica-northeast1-a", "northamerica-northeast1-b", "northamerica-northeast1-c",
	"europe-north1-a", "europe-north1-b", "europe-north1-c",
	"europe-west1-b", "europe-west1-c", "europe-west1-d",
	"europe-west2-a", "europe-west2-b", "europe-west2-c",
	"europe-west3-a", "europe-west3-b", "europe-west3-c",
	"europe-west4-a", "europe-west4-b", "europe-west4-c",
	"europe-west6-a", "europe-west6-b", "europe-west6-c",
	"australia-southeast1-a", "australia-southeast1-b", "australia-southeast1-c",
	"asia-southeast1-a", "asia-southeast1-b", "asia-southeast1-c",
	"asia-south1-a", "asia-south1-b", "asia-south1-c",
	"asia-northeast1-a", "asia-northeast1-b", "asia-northeast1-c",
	"asia-northeast2-a", "asia-northeast2-b", "asia-northeast2-c",
	"asia-east1-a", "asia-east1-b", "asia-east1-c",
	"asia-east2-a", "asia-east2-b", "asia-east2-c",
}

// GCPImageProject hosts the Deep Learning VM image families.
const GCPImageProject = "deeplearning-platform-release"

// GCPCPUImageFamilies are the CPU-only Deep Learning VM families.
var GCPCPUImageFamilies = []string{
	"common-cpu",
	"tf-latest-cpu",
	"tf-ent-latest-cpu",
	"tf2-latest-cpu",
	"pytorch-latest-cpu",
	"r-latest-cpu-experimental",
	"chainer-latest-cpu-experimental",
	"xgboost-latest-cpu-experimental",
	"mxnet-latest-cpu-experimental",
	"cntk-latest-cpu-experimental",
	"caffe1-latest-cpu-experimental",
}

// GCPGPUImageFamilies are the CUDA Deep Learning VM families.
var GCPGPUImageFamilies = []string{
	"common-cu101",
	"common-cu100",
	"common-cu92",
	"common-cu91",
	"common-cu90",
	"tf-latest-gpu",
	"tf-ent-latest-gpu",
	"tf2-latest-gpu",
	"pytorch-latest-gpu",
	"rapids-latest-gpu-experimental",
	"chainer-latest-gpu-experimental",
	"xgboost-latest-gpu-experimental",
	"mxnet-latest-gpu-experimental",
	"cntk-latest-gpu-experimental",
	"caffe1-latest-gpu-experimental",
}

// GCPImageFamilies returns the GPU or CPU family list.
func GCPImageFamilies(gpu bool) []string {
	if gpu {
		return GCPGPUImageFamilies
	}
	return GCPCPUImageFamilies
}

// awsRegionOrder is the order regions are offered in.
var awsRegionOrder = []string{
	"us-east-2", "us-east-1", "us-west-1", "us-west-2",
	"ap-east-1", "ap-south-1", "ap-northeast-3", "ap-northeast-2", "ap-northeast-1",
	"ap-southeast-2", "ap-southeast-1",
	"ca-central-1",
	"cn-north-1", "cn-northwest-1",
	"eu-central-1", "eu-west-1", "eu-west-2", "eu-west-3", "eu-north-1",
	"me-south-1",
	"sa-east-1",
	"us-gov-east-1", "us-gov-west-1",
}

// AWSRegions returns the offered region ids that the SDK endpoint table knows.
func AWSRegions() []string {
	ps := endpoints.DefaultPartitions()
	out := make([]string, 0, len(awsRegionOrder))
	for _, id := range awsRegionOrder {
		if _, ok := endpoints.PartitionForRegion(ps, id); ok {
			out = append(out, id)
		}
	}
	return out
}

// IsAWSRegion reports whether id is a region in any SDK partition.
func IsAWSRegion(id string) bool {
	for _, p := range endpoints.DefaultPartitions() {
		if _, ok := p.Regions()[id]; ok {
			return true
		}
	}
	return false
}

// AWSRegionDescription returns the human name of a region, e.g. "US East (Ohio)".
func AWSRegionDescription(id string) string {
	for _, p := range endpoints.DefaultPartitions() {
		if r, ok := p.Regions()[id]; ok {
			return r.Description()
		}
	}
	return ""
}

// Contains reports whether s is one of options.
func Contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
